package umem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MacroPower/kwait/pkg/kerrors"
	"github.com/MacroPower/kwait/pkg/umem"
)

type widget struct{ n int }

type gadget struct{}

func TestSpaceCheck(t *testing.T) {
	t.Parallel()

	s := umem.NewSpace(64)

	tcs := map[string]struct {
		addr    umem.Addr
		size    uint64
		wantErr bool
	}{
		"inside":             {addr: 0, size: 64},
		"tail":               {addr: 60, size: 4},
		"past end":           {addr: 61, size: 4, wantErr: true},
		"start out of range": {addr: 64, size: 0, wantErr: true},
		"sentinel":           {addr: umem.Nil, size: 1, wantErr: true},
		"overflowing size":   {addr: 8, size: ^uint64(0), wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := s.Check(tc.addr, tc.size)
			if tc.wantErr {
				require.ErrorIs(t, err, kerrors.ErrInvalidArgument)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSpaceMapAndLookup(t *testing.T) {
	t.Parallel()

	s := umem.NewSpace(128)
	w := &widget{n: 7}

	require.NoError(t, s.Map(16, w, 8))

	got, err := umem.Lookup[widget](s, 16, 8)
	require.NoError(t, err)
	assert.Same(t, w, got)

	_, err = umem.Lookup[widget](s, 16, 16)
	require.ErrorIs(t, err, kerrors.ErrBadAddress, "undersized object")

	_, err = umem.Lookup[gadget](s, 16, 8)
	require.ErrorIs(t, err, kerrors.ErrBadAddress, "wrong type")

	_, err = umem.Lookup[widget](s, 20, 4)
	require.ErrorIs(t, err, kerrors.ErrBadAddress, "interior address")

	_, err = umem.Lookup[widget](s, 200, 8)
	require.ErrorIs(t, err, kerrors.ErrInvalidArgument, "outside space")

	err = s.Map(20, &widget{}, 8)
	require.ErrorIs(t, err, kerrors.ErrInvalidArgument, "overlap")

	err = s.Map(40, &widget{}, 0)
	require.ErrorIs(t, err, kerrors.ErrInvalidArgument, "zero size")
}

func TestSpaceAlloc(t *testing.T) {
	t.Parallel()

	s := umem.NewSpace(24)

	a, err := s.Alloc(&widget{}, 8)
	require.NoError(t, err)
	b, err := s.Alloc(&widget{}, 8)
	require.NoError(t, err)

	assert.Equal(t, umem.Addr(0), a)
	assert.Equal(t, umem.Addr(8), b)
	assert.Equal(t, []umem.Addr{0, 8}, s.Mapped())

	_, err = s.Alloc(&widget{}, 16)
	require.ErrorIs(t, err, kerrors.ErrInvalidArgument)
}

func TestAddrString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "nil", umem.Nil.String())
	assert.Equal(t, "0x10", umem.Addr(16).String())
}
