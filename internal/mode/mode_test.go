package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bethropolis/ebb/internal/types"
)

func TestModeTable(t *testing.T) {
	cases := []struct {
		name      string
		info      Info
		insertion bool
		deletion  bool
		saveMode  SaveMode
		hasStart  bool
		hasEnd    bool
	}{
		{"whole", Whole(), true, true, SaveWhole, false, false},
		{"partial", Partial(2, 5), false, false, SaveWhole, true, true},
		{"open-partial", OpenPartial(500), true, true, SaveWhole, true, false},
		{"spotty", Spotty(2, 5), false, false, SavePartial, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.insertion, tc.info.SupportsInsertion())
			assert.Equal(t, tc.deletion, tc.info.SupportsDeletion())
			assert.Equal(t, tc.saveMode, tc.info.SaveMode())
			_, ok := tc.info.Start()
			assert.Equal(t, tc.hasStart, ok)
			_, ok = tc.info.End()
			assert.Equal(t, tc.hasEnd, ok)
		})
	}
}

func TestBoundPtrs(t *testing.T) {
	assert.Nil(t, Whole().StartPtr())
	assert.Nil(t, Whole().EndPtr())

	p := Partial(2, 5)
	if assert.NotNil(t, p.StartPtr()) {
		assert.Equal(t, types.Absolute(2), *p.StartPtr())
	}
	if assert.NotNil(t, p.EndPtr()) {
		assert.Equal(t, types.Absolute(5), *p.EndPtr())
	}
	assert.Nil(t, OpenPartial(500).EndPtr())
}
