// internal/faults/table_test.go
package faults

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/midas/internal/codec"
)

func TestDefault_LoadsEmbeddedDataset(t *testing.T) {
	tbl := Default()
	require.NotNil(t, tbl)
	assert.Same(t, tbl, Default())

	// no text ships with the binary
	assert.Equal(t, 0, tbl.Len())
	_, ok := tbl.Lookup(codec.FaultCode(1))
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	tbl, err := Parse(strings.NewReader("code,description,condition,recovery\nF104,Desc,Cond,Rec\n"))
	require.NoError(t, err)

	txt, ok := tbl.Lookup("F104")
	require.True(t, ok)
	assert.Equal(t, codec.FaultText{Description: "Desc", Condition: "Cond", Recovery: "Rec"}, txt)

	_, ok = tbl.Lookup("m1")
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":     "",
		"columns":   "code,description,condition,recovery\nm1,only-two\n",
		"duplicate": "code,description,condition,recovery\nm1,a,b,c\nm1,d,e,f\n",
		"no code":   "code,description,condition,recovery\n ,a,b,c\n",
	}
	for name, in := range cases {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faults.csv")
	require.NoError(t, os.WriteFile(path, []byte("code,description,condition,recovery\nm3,x,y,z\n"), 0o600))

	tbl, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestNilTable(t *testing.T) {
	var tbl *Table
	_, ok := tbl.Lookup("m1")
	assert.False(t, ok)
	assert.Equal(t, 0, tbl.Len())
}
