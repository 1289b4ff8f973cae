package logzer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestLogRotate(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "dtfmt.log")
	lf := &LogFile{
		FilePath: filePath,
		MaxSize:  150,
		Rotate:   3,
	}
	record := func(i int) []byte {
		return []byte(fmt.Sprintf("%-59s\n", fmt.Sprintf("record-%d", i)))
	}

	for i := 1; i <= 3; i++ {
		_, err := lf.Write(record(i)) // expect rotation on 3rd by maxSize
		assert.NoError(t, err)
	}
	log0, err0 := os.ReadFile(filePath)
	assert.NoError(t, err0)
	assert.Contains(t, string(log0), "record-3")
	if rotated := lf.Rotated(); assert.Len(t, rotated, 1) {
		log1, err1 := os.ReadFile(rotated[0])
		assert.NoError(t, err1)
		assert.Contains(t, string(log1), "record-1")
		assert.Contains(t, string(log1), "record-2")
	}

	for i := 4; i <= 9; i++ {
		_, err := lf.Write(record(i)) // expect rotation on 5th, 7th, 9th
		assert.NoError(t, err)
	}
	log0, err0 = os.ReadFile(filePath)
	assert.NoError(t, err0)
	assert.Equal(t, string(record(9)), string(log0))

	/* oldest rotated file is pruned, names sort by rotation time */
	rotated := lf.Rotated()
	if assert.Len(t, rotated, 3) {
		contents := make([]string, len(rotated))
		for i, name := range rotated {
			data, err := os.ReadFile(name)
			assert.NoError(t, err)
			contents[i] = string(data)
		}
		assert.Equal(t, string(record(3))+string(record(4)), contents[0])
		assert.Equal(t, string(record(5))+string(record(6)), contents[1])
		assert.Equal(t, string(record(7))+string(record(8)), contents[2])
	}
	assert.NoError(t, lf.Close())
}

func TestLogFileWithLogger(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "dtfmt.log")
	lf := &LogFile{FilePath: filePath, MaxSize: 1024 * 1024, Rotate: 1}
	SetLogger(
		WithOutput(io.Discard),
		WithLevel(zerolog.DebugLevel),
		WithLogFile(lf))

	log.Debug().Msg("message debug1")
	log.Info().Msg("message info1")

	content, err := os.ReadFile(filePath)
	assert.NoError(t, err)
	assert.Contains(t, string(content), "debug1")
	assert.Contains(t, string(content), "info1")
	assert.Empty(t, lf.Rotated())
}

func TestLogRotateNoKeep(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "dtfmt.log")
	lf := &LogFile{FilePath: filePath, MaxSize: 10}

	_, err := lf.Write([]byte("0123456789"))
	assert.NoError(t, err)
	_, err = lf.Write([]byte("abc"))
	assert.NoError(t, err)

	data, err := os.ReadFile(filePath)
	assert.NoError(t, err)
	assert.Equal(t, "abc", string(data))
	assert.Empty(t, lf.Rotated())
	assert.NoError(t, lf.Close())
}
