package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"embed url", `<iframe src="https://www.youtube.com/embed/abc123XYZ?rel=0"></iframe>`, "abc123XYZ", true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch query", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10", "dQw4w9WgXcQ", true},
		{"later query param", "https://www.youtube.com/watch?feature=share&v=a-b_c-d", "a-b_c-d", true},
		{"embed wins over query", `<a href="https://x.org/?v=queryID1">x</a> youtube.com/embed/embedID1`, "embedID1", true},
		{"id too short", "https://youtu.be/abc", "", false},
		{"no video", "<p>nothing here</p>", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractVideoID(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestItemVideoID(t *testing.T) {
	t.Run("description first", func(t *testing.T) {
		it := &RawItem{
			Descriptions: TextElements{{Value: "youtu.be/fromBody1"}},
			Enclosure:    &RawEnclosure{URL: "https://youtu.be/fromEnclosure"},
		}
		id, ok := itemVideoID(it)
		assert.True(t, ok)
		assert.Equal(t, "fromBody1", id)
	})

	t.Run("falls back to media url", func(t *testing.T) {
		it := &RawItem{
			Descriptions: TextElements{{Value: "<p>no video</p>"}},
			MediaContent: []MediaElement{{XMLName: xmlName(mediaNS, "content"), URL: "https://www.youtube.com/watch?v=fromMedia1"}},
		}
		id, ok := itemVideoID(it)
		assert.True(t, ok)
		assert.Equal(t, "fromMedia1", id)
	})

	t.Run("falls back to enclosure url", func(t *testing.T) {
		it := &RawItem{
			Enclosure: &RawEnclosure{URL: "https://youtu.be/fromEnclosure"},
		}
		id, ok := itemVideoID(it)
		assert.True(t, ok)
		assert.Equal(t, "fromEnclosure", id)
	})

	t.Run("none", func(t *testing.T) {
		_, ok := itemVideoID(&RawItem{})
		assert.False(t, ok)
	})
}
