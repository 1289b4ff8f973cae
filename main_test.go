package main

import (
	"bytes"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gwos/datetime/config"
	"github.com/gwos/datetime/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Setenv(config.ConfigEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	tests := []struct {
		name     string
		args     []string
		stdin    string
		wantCode int
		want     string
	}{
		{
			name:     "args",
			args:     []string{"0", "3661500000"},
			wantCode: 0,
			want: "0\t19700101T000000.000000000\t1970-01-01\t00:00:00.000000\n" +
				"3661500000\t19700101T010101.500000000\t1970-01-01\t01:01:01.500000\n",
		},
		{
			name:     "stdin",
			stdin:    "61000000\n\n  1500000 \n",
			wantCode: 0,
			want: "61000000\t19700101T000101.000000000\t1970-01-01\t00:01:01.000000\n" +
				"1500000\t19700101T000001.500000000\t1970-01-01\t00:00:01.500000\n",
		},
		{
			name:     "stdin json",
			args:     []string{"-o", "json"},
			stdin:    "1\n",
			wantCode: 0,
			want: `{"micros":1,"count":"1","instant":"19700101T000000.000001000","date":"1970-01-01",` +
				`"duration":"00:00:00.000001","fields":{"hours":0,"minutes":0,"seconds":0,"fraction":1}}` + "\n",
		},
		{
			name:     "bad count skipped",
			args:     []string{"-l", "0", "1500000", "1.5s"},
			wantCode: 1,
			want:     "1500000\t19700101T000001.500000000\t1970-01-01\t00:00:01.500000\n",
		},
		{
			name:     "custom facet",
			args:     []string{"--date-layout", "2006-Jan-02", "--duration-digits", "-1", "3661500000"},
			wantCode: 0,
			want:     "3661500000\t19700101T010101.500000000\t1970-Jan-01\t01:01:01\n",
		},
		{
			name:     "unknown output",
			args:     []string{"-o", "xml", "1"},
			wantCode: 1,
			want:     "",
		},
		{
			name:     "bad flag",
			args:     []string{"--no-such-flag"},
			wantCode: 2,
			want:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			code := run(tt.args, strings.NewReader(tt.stdin), out)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRunVersion(t *testing.T) {
	t.Setenv(config.ConfigEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	out := &bytes.Buffer{}
	assert.Equal(t, 0, run([]string{"--version"}, strings.NewReader(""), out))
	assert.Equal(t, config.GetBuildInfo().String()+"\n", out.String())
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestRunStdinBatching(t *testing.T) {
	t.Setenv(config.ConfigEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	t.Run("negative interval", func(t *testing.T) {
		t.Setenv("DTFMT_BATCHINTERVAL", "-1s")
		out := &bytes.Buffer{}
		assert.Equal(t, 0, run(nil, strings.NewReader("1\n2\n"), out))
		assert.Equal(t,
			"1\t19700101T000000.000001000\t1970-01-01\t00:00:00.000001\n"+
				"2\t19700101T000000.000002000\t1970-01-01\t00:00:00.000002\n",
			out.String())
	})
	t.Run("write failure", func(t *testing.T) {
		assert.Equal(t, 1, run(nil, strings.NewReader("1\n2\n"), failWriter{}))
	})
}

func TestStreamCountsWritten(t *testing.T) {
	t.Setenv(config.ConfigEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	cfg, _, err := config.Load([]string{})
	require.NoError(t, err)
	cfg.BatchMaxLen = 2
	enc, err := diag.Lookup("text")
	require.NoError(t, err)
	parse := func(s string) (diag.Record, bool) {
		us, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		return diag.NewRecord(cfg.Facet(), us), err == nil
	}

	written, writeErr, err := stream(cfg, enc, parse, strings.NewReader("1\n\n2\nx\n3\n"), &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, writeErr)
	assert.Equal(t, 3, written)

	written, writeErr, err = stream(cfg, enc, parse, strings.NewReader("1\n2\n3\n"), failWriter{})
	require.NoError(t, err)
	assert.True(t, writeErr)
	assert.Equal(t, 0, written)
}
