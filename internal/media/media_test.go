// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package media_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vidora/vidora/internal/media"
)

/*
TestObjectKey verifies key structure: folder prefix, unique infix, slugged name.
*/
func TestObjectKey(t *testing.T) {
	key := media.ObjectKey("avatars", "My Avatar.PNG")

	assert.True(t, strings.HasPrefix(key, "avatars/"))
	assert.True(t, strings.HasSuffix(key, "-my-avatar.png"))
}

/*
TestObjectKey_Uniqueness verifies two uploads of the same file never collide.
*/
func TestObjectKey_Uniqueness(t *testing.T) {
	first := media.ObjectKey("videos", "clip.mp4")
	second := media.ObjectKey("videos", "clip.mp4")

	assert.NotEqual(t, first, second)
}

/*
TestObjectKey_UnsluggableName verifies a fallback name is used when the
original file name reduces to nothing.
*/
func TestObjectKey_UnsluggableName(t *testing.T) {
	key := media.ObjectKey("covers", "!!!.jpg")

	assert.True(t, strings.HasPrefix(key, "covers/"))
	assert.True(t, strings.HasSuffix(key, "-file.jpg"))
}
