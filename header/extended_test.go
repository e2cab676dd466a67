package header

import (
	"errors"
	"testing"

	"github.com/dlt-go/dltcore/errs"
	"github.com/stretchr/testify/require"
)

func TestWithNetworkTraceUserDefinedSetsSubCodePreservingTypeAndVerb(t *testing.T) {
	e := Extended{MessageInfo: 0b0000_1001} // VERB set, type code 4 (NWT)

	got, err := e.WithNetworkTraceUserDefined(3)
	require.NoError(t, err)
	require.EqualValues(t, 8, got.MessageTypeInfo())
	require.True(t, got.IsVerbose())
	require.EqualValues(t, 4, got.MessageType())
}

func TestWithNetworkTraceUserDefinedRejectsOutOfRange(t *testing.T) {
	e := Extended{}

	_, err := e.WithNetworkTraceUserDefined(11)
	require.Error(t, err)

	var target *errs.NetworkTypeUserDefinedOutsideOfRange
	require.True(t, errors.As(err, &target))
	require.Equal(t, 11, target.Value)

	_, err = e.WithNetworkTraceUserDefined(-1)
	require.Error(t, err)
}
