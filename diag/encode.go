package diag

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"github.com/gwos/datetime/errors"
	"gopkg.in/yaml.v3"
)

// Encoder writes records
type Encoder func(w io.Writer, records []Record) error

var encoders = map[string]Encoder{
	"text": encodeText,
	"json": encodeJSON,
	"yaml": encodeYAML,
	"cbor": encodeCBOR,
}

// Lookup returns encoder for output format: text, json, yaml, or cbor.
// Encoders can be called repeatedly on the same writer to stream batches,
// cbor then produces a sequence of arrays.
func Lookup(output string) (Encoder, error) {
	enc, ok := encoders[output]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownOutput, output)
	}
	return enc, nil
}

// Encode writes records in output format
func Encode(w io.Writer, output string, records []Record) error {
	enc, err := Lookup(output)
	if err != nil {
		return err
	}
	return enc(w, records)
}

// encodeText writes one tab separated line per record:
// micros, instant, date, duration
func encodeText(w io.Writer, records []Record) error {
	buf := make([]byte, 0, 128)
	for _, r := range records {
		buf = strconv.AppendUint(buf[:0], r.Micros, 10)
		buf = append(buf, '\t')
		buf = append(buf, r.Instant...)
		buf = append(buf, '\t')
		buf = append(buf, r.Date...)
		buf = append(buf, '\t')
		buf = append(buf, r.Duration...)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// encodeJSON writes one object per line
func encodeJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// encodeYAML writes a document per record, each starts with "---"
func encodeYAML(w io.Writer, records []Record) error {
	for _, r := range records {
		if _, err := io.WriteString(w, "---\n"); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	}
	return nil
}

// encodeCBOR writes records as single array
func encodeCBOR(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	return cbor.NewEncoder(w).Encode(records)
}
