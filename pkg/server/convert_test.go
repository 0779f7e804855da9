package server_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bufbuild/connect-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.openly.dev/pointy"

	"droscher.com/WineCellar/pkg/model"
	"droscher.com/WineCellar/pkg/server"
)

func TestToConnectError(t *testing.T) {
	cases := map[error]connect.Code{
		model.ErrAuthenticationFailed: connect.CodeUnauthenticated,
		model.ErrUnauthorized:         connect.CodePermissionDenied,
		model.ErrValidation:           connect.CodeInvalidArgument,
		model.ErrCapacityExceeded:     connect.CodeResourceExhausted,
		model.ErrNotEmpty:             connect.CodeFailedPrecondition,
		model.ErrNotFound:             connect.CodeNotFound,
		model.ErrStorage:              connect.CodeInternal,
		errors.New("boom"):            connect.CodeUnknown,
	}

	for kind, code := range cases {
		err := server.ToConnectError(fmt.Errorf("%w: detail", kind))
		assert.Equal(t, code, connect.CodeOf(err), kind.Error())
	}

	assert.NoError(t, server.ToConnectError(nil))
}

func TestSelectorToModel(t *testing.T) {
	_, err := server.SelectorToModel(nil)
	require.ErrorIs(t, err, model.ErrValidation)

	_, err = server.SelectorToModel(&server.Selector{DescriptorID: pointy.Uint64(1), Wine: &server.Wine{}})
	require.ErrorIs(t, err, model.ErrValidation)

	selector, err := server.SelectorToModel(&server.Selector{DescriptorID: pointy.Uint64(9)})
	require.NoError(t, err)
	assert.Equal(t, uint(9), *selector.DescriptorID)

	selector, err = server.SelectorToModel(&server.Selector{Wine: &server.Wine{Producer: "Ott", Name: "Clos Mireille", Type: "rose", Year: 2022}})
	require.NoError(t, err)
	assert.Equal(t, model.Rose, selector.Characteristics.Type)
	assert.Nil(t, selector.Characteristics.Region)
}

func TestJSONCodec_RoundTrip(t *testing.T) {
	codec := server.JSONCodec{}
	assert.Equal(t, "json", codec.Name())

	data, err := codec.Marshal(&server.GetCellarRequest{CellarID: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cellarId":3}`, string(data))

	var decoded server.GetCellarRequest
	require.NoError(t, codec.Unmarshal(data, &decoded))
	assert.Equal(t, uint64(3), decoded.CellarID)
}
