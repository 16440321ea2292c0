package ewmh

import (
	"testing"

	"github.com/nuclearfall/howm/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestClassifyWindowType(t *testing.T) {
	assert.Equal(t, TypeUnmanaged, ClassifyWindowType([]string{"_NET_WM_WINDOW_TYPE_DOCK"}))
	assert.Equal(t, TypeFloatingHint, ClassifyWindowType([]string{"_NET_WM_WINDOW_TYPE_DIALOG"}))
	assert.Equal(t, TypeNormal, ClassifyWindowType([]string{"_NET_WM_WINDOW_TYPE_NORMAL"}))
	assert.Equal(t, TypeNormal, ClassifyWindowType(nil))
}

func TestApplyStateActionToggle(t *testing.T) {
	c := &core.Client{}
	ok := ApplyStateAction(c, "_NET_WM_STATE_FULLSCREEN", ActionAdd)
	assert.True(t, ok)
	assert.True(t, c.Fullscreen)

	ApplyStateAction(c, "_NET_WM_STATE_FULLSCREEN", ActionToggle)
	assert.False(t, c.Fullscreen)

	ok = ApplyStateAction(c, "_NET_SOMETHING_ELSE", ActionAdd)
	assert.False(t, ok)
}
