package relpath

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelative(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses unix absolute paths")
	}

	tests := []struct {
		name string
		from string
		to   string
		base Base
		want string
	}{
		{name: "sibling directory", from: "/proj/src/a.cpp", to: "/proj/include/util.h", base: FromFile, want: "../include/util.h"},
		{name: "same directory", from: "/proj/src/a.cpp", to: "/proj/src/util.h", base: FromFile, want: "util.h"},
		{name: "subdirectory", from: "/proj/src/a.cpp", to: "/proj/src/detail/impl.h", base: FromFile, want: "detail/impl.h"},
		{name: "two levels up", from: "/proj/src/x/y/a.cpp", to: "/proj/lib.h", base: FromFile, want: "../../../lib.h"},
		{name: "from directory", from: "/root/inc/sub", to: "/root/inc/sub/foo.h", base: FromDir, want: "foo.h"},
		{name: "from directory with trailing separator", from: "/root/inc/", to: "/root/inc/sub/foo.h", base: FromDir, want: "sub/foo.h"},
		{name: "unclean inputs", from: "/proj/src/../src/a.cpp", to: "/proj//include/./util.h", base: FromFile, want: "../include/util.h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Relative(tt.from, tt.to, tt.base)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRelative_RelativeInputIsTypedError(t *testing.T) {
	_, err := Relative("src/a.cpp", "/proj/include/util.h", FromFile)

	var relErr *Error
	require.ErrorAs(t, err, &relErr)
	assert.True(t, errors.Is(err, ErrNotAbsolute))
	assert.Equal(t, "src/a.cpp", relErr.From)
}

func TestRelative_DifferentVolumes(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("volumes only exist on windows")
	}

	_, err := Relative(`C:\proj\a.cpp`, `D:\lib\util.h`, FromFile)

	assert.ErrorIs(t, err, ErrNoCommonRoot)
}

func TestStripCurrentDir(t *testing.T) {
	assert.Equal(t, "util.h", StripCurrentDir("./util.h"))
	assert.Equal(t, "util.h", StripCurrentDir(`.\util.h`))
	assert.Equal(t, "../util.h", StripCurrentDir("../util.h"))
	assert.Equal(t, ".hidden/util.h", StripCurrentDir(".hidden/util.h"))
}
