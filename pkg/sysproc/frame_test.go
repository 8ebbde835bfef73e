package sysproc_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MacroPower/kwait/pkg/kerrors"
	"github.com/MacroPower/kwait/pkg/sysproc"
	"github.com/MacroPower/kwait/pkg/umem"
)

func TestFrameInt(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		frame   sysproc.Frame
		idx     int
		want    int
		wantErr bool
	}{
		"positive":      {frame: sysproc.Args(7), want: 7},
		"negative":      {frame: sysproc.Args(-7), want: -7},
		"second":        {frame: sysproc.Args(1, 2), idx: 1, want: 2},
		"min int32":     {frame: sysproc.Args(math.MinInt32), want: math.MinInt32},
		"above int32":   {frame: sysproc.Args(math.MaxInt32 + 1), wantErr: true},
		"below int32":   {frame: sysproc.Args(math.MinInt32 - 1), wantErr: true},
		"missing":       {frame: sysproc.Args(1), idx: 1, wantErr: true},
		"negative idx":  {frame: sysproc.Args(1), idx: -1, wantErr: true},
		"garbage value": {frame: sysproc.Frame{1 << 40}, wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.frame.Int(tc.idx)
			if tc.wantErr {
				require.ErrorIs(t, err, kerrors.ErrInvalidArgument)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFramePtr(t *testing.T) {
	t.Parallel()

	space := umem.NewSpace(64)

	addr, err := sysproc.Args(48).Ptr(space, 0, 16)
	require.NoError(t, err)
	assert.Equal(t, umem.Addr(48), addr)

	_, err = sysproc.Args(49).Ptr(space, 0, 16)
	require.ErrorIs(t, err, kerrors.ErrInvalidArgument)

	_, err = sysproc.Args(0).Ptr(nil, 0, 16)
	require.ErrorIs(t, err, kerrors.ErrInvalidArgument)

	_, err = sysproc.Args().Ptr(space, 0, 16)
	require.ErrorIs(t, err, kerrors.ErrInvalidArgument)
}
