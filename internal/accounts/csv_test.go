package accounts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credit360-dev/credit360/internal/model"
)

func TestReadAccounts(t *testing.T) {
	input := Header + "\n" +
		"1010,Cash on Hand,asset,true,\n" +
		"2010,Customer Savings,liability,true,Savings owed to customers\n"

	accts, err := ReadAccounts(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, accts, 2)
	assert.Equal(t, "1010", accts[0].Code)
	assert.Equal(t, model.AccountTypeLiability, accts[1].Type)
	assert.Equal(t, "Savings owed to customers", accts[1].Description)
}

func TestReadAccounts_Empty(t *testing.T) {
	accts, err := ReadAccounts(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, accts)
}

func TestReadAccounts_UnknownType(t *testing.T) {
	input := Header + "\n" + "1010,Cash,contra,true,\n"
	_, err := ReadAccounts(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown account type")
}

func TestWriteRead_RoundTrip(t *testing.T) {
	accts := DefaultChart()

	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, accts))

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	assert.Equal(t, accts, got)
}
