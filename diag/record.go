// Package diag builds diagnostic records from microsecond counts
// and encodes them for the dtfmt command
package diag

import (
	"math"
	"math/big"

	"github.com/dustin/go-humanize"
	"github.com/gwos/datetime/datetime"
)

// Fields holds the decomposed duration parts
type Fields struct {
	Hours    uint64 `json:"hours" yaml:"hours"`
	Minutes  uint8  `json:"minutes" yaml:"minutes"`
	Seconds  uint8  `json:"seconds" yaml:"seconds"`
	Fraction uint32 `json:"fraction" yaml:"fraction"`
}

// Record describes one microsecond count in all canonical forms
type Record struct {
	Micros   uint64 `json:"micros" yaml:"micros"`
	Count    string `json:"count" yaml:"count"`
	Instant  string `json:"instant" yaml:"instant"`
	Date     string `json:"date" yaml:"date"`
	Duration string `json:"duration" yaml:"duration"`
	Fields   Fields `json:"fields" yaml:"fields"`
}

// NewRecord renders us as instant past the Unix epoch (UTC), its date,
// and as elapsed duration. Counts above math.MaxInt64 wrap as instants.
func NewRecord(f datetime.Facet, us uint64) Record {
	inst := datetime.UnixMicro(int64(us))
	d := datetime.Decompose(us)
	return Record{
		Micros:   us,
		Count:    count(us),
		Instant:  f.Format(inst),
		Date:     f.Format(inst.Date()),
		Duration: f.Format(d),
		Fields: Fields{
			Hours:    d.Hours,
			Minutes:  d.Minutes,
			Seconds:  d.Seconds,
			Fraction: d.Fraction,
		},
	}
}

func count(us uint64) string {
	if us > math.MaxInt64 {
		return humanize.BigComma(new(big.Int).SetUint64(us))
	}
	return humanize.Comma(int64(us))
}
