package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceExt(t *testing.T) {
	assert.Equal(t, "/videos/clip.srt", ReplaceExt("/videos/clip.mp4", ".srt"))
	assert.Equal(t, "/videos/clip.srt", ReplaceExt("/videos/clip.mp4", "srt"))
	assert.Equal(t, "clip.wav", ReplaceExt("clip", ".wav"))
	assert.Equal(t, "", ReplaceExt("", ".srt"))
}

func TestSafeBaseName(t *testing.T) {
	assert.Equal(t, "clip.mp4", SafeBaseName("clip.mp4"))
	assert.Equal(t, "clip.mp4", SafeBaseName("/etc/../clip.mp4"))
	assert.Equal(t, "my_movie_1.mkv", SafeBaseName("my movie 1.mkv"))
	assert.Equal(t, "clip.mp4", SafeBaseName("..\\..\\clip.mp4"))
	assert.Equal(t, "upload", SafeBaseName(".."))
	assert.Equal(t, "upload", SafeBaseName("???"))
}
