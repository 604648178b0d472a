package frontmatter

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantFM   *Frontmatter
		wantBody string
		wantErr  bool
	}{
		{
			name: "valid frontmatter",
			content: `---
title: Test Note
aliases: []
tags: [test, example]
created: 2023-01-01 10:00:00
---

# Test Content

This is the body.`,
			wantFM: &Frontmatter{
				Title:   "Test Note",
				Aliases: []string{},
				Tags:    []string{"test", "example"},
			},
			wantBody: "\n# Test Content\n\nThis is the body.",
			wantErr:  false,
		},
		{
			name:     "no frontmatter",
			content:  "# Just a title\n\nSome content.",
			wantFM:   nil,
			wantBody: "# Just a title\n\nSome content.",
			wantErr:  false,
		},
		{
			name: "invalid yaml",
			content: `---
title: [invalid
---

Body`,
			wantFM: nil,
			wantBody: `---
title: [invalid
---

Body`,
			wantErr: true,
		},
		{
			name:    "scalar tags and hash prefixes",
			content: "---\ntags: \"#work, ideas, work\"\n---\nbody",
			wantFM: &Frontmatter{
				Aliases: []string{},
				Tags:    []string{"work", "ideas"},
			},
			wantBody: "body",
		},
		{
			name:    "crlf line endings",
			content: "---\r\ntitle: Windows\r\ntags: [a]\r\n---\r\nbody\r\n",
			wantFM: &Frontmatter{
				Title:   "Windows",
				Aliases: []string{},
				Tags:    []string{"a"},
			},
			wantBody: "body\r\n",
		},
		{
			name:    "frontmatter only",
			content: "---\ntags: [solo]\n---",
			wantFM: &Frontmatter{
				Aliases: []string{},
				Tags:    []string{"solo"},
			},
			wantBody: "",
		},
		{
			name:    "mapping tags rejected",
			content: "---\ntags: {a: b}\n---\nbody",
			wantFM:  nil,
			wantBody: "---\ntags: {a: b}\n---\nbody",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFM, gotBody, err := Parse(tt.content)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(gotFM, tt.wantFM) {
				t.Errorf("Parse() gotFM = %#v, want %#v", gotFM, tt.wantFM)
			}
			if gotBody != tt.wantBody {
				t.Errorf("Parse() gotBody = %q, want %q", gotBody, tt.wantBody)
			}
		})
	}
}

func TestMergeTags(t *testing.T) {
	tests := []struct {
		name    string
		sources [][]string
		want    []string
	}{
		{
			name:    "empty sources",
			sources: [][]string{},
			want:    []string{},
		},
		{
			name:    "single source",
			sources: [][]string{{"tag1", "tag2"}},
			want:    []string{"tag1", "tag2"},
		},
		{
			name:    "duplicates across sources",
			sources: [][]string{{"tag1", "tag2"}, {"tag2", "tag3"}},
			want:    []string{"tag1", "tag2", "tag3"},
		},
		{
			name:    "blank and hashed tags",
			sources: [][]string{{"", "  ", "#tag1", "tag1"}},
			want:    []string{"tag1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeTags(tt.sources...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeTags() = %v, want %v", got, tt.want)
			}
		})
	}
}
