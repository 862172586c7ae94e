package classify_test

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"downfileorg/internal/classify"
)

func record(name string, size int64) classify.FileRecord {
	rec := classify.RecordFromInfo(filepath.Join("/watch", name), nil)
	rec.SizeBytes = size
	rec.ModifiedAt = time.Now().UTC()
	return rec
}

func featureIndex(t *testing.T, name string) int {
	t.Helper()
	for i, candidate := range classify.FeatureNames() {
		if candidate == name {
			return i
		}
	}
	t.Fatalf("feature %q not in schema", name)
	return -1
}

func TestFeatureNamesMatchSchemaWidth(t *testing.T) {
	names := classify.FeatureNames()
	if len(names) != classify.FeatureCount {
		t.Fatalf("expected %d names, got %d", classify.FeatureCount, len(names))
	}
	if names[0] != "extension" {
		t.Fatalf("expected extension first, got %s", names[0])
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			t.Fatalf("duplicate feature name %s", name)
		}
		seen[name] = struct{}{}
	}
}

func TestExtractBasicFeatures(t *testing.T) {
	vec := classify.Extract(record("assignment_math_2024.pdf", 2048))
	if len(vec.Values) != classify.FeatureCount {
		t.Fatalf("expected %d values, got %d", classify.FeatureCount, len(vec.Values))
	}
	if vec.Extension != ".pdf" {
		t.Fatalf("expected .pdf, got %s", vec.Extension)
	}

	checks := map[string]float64{
		"name_length":    float64(len("assignment_math_2024")),
		"size_bytes":     2048,
		"size_category":  1,
		"has_numbers":    1,
		"has_underscore": 2,
		"has_dash":       0,
		"word_count":     3,
	}
	for name, want := range checks {
		if got := vec.Values[featureIndex(t, name)]; got != want {
			t.Fatalf("%s: expected %v, got %v", name, want, got)
		}
	}

	if got := vec.Values[featureIndex(t, "keywords_education")]; got < 2 {
		t.Fatalf("expected assignment and math keyword hits, got %v", got)
	}
	if got := vec.Values[featureIndex(t, "ext_match_education")]; got != 1 {
		t.Fatalf("expected .pdf to match education extensions, got %v", got)
	}
	if got := vec.Values[featureIndex(t, "ext_match_movies")]; got != 0 {
		t.Fatalf("expected .pdf not to match movie extensions, got %v", got)
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	rec := record("Course-Video_Lecture 01.mp4", 5_000_000)
	first := classify.Extract(rec)
	for i := 0; i < 3; i++ {
		again := classify.Extract(rec)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("extraction diverged on run %d", i)
		}
	}
}

func TestExtractFoldsCase(t *testing.T) {
	upper := classify.Extract(record("INVOICE.PDF", 1024))
	lower := classify.Extract(record("invoice.pdf", 1024))
	if !reflect.DeepEqual(upper, lower) {
		t.Fatal("expected case-insensitive extraction")
	}
	if upper.Values[featureIndex(t, "keywords_finance")] < 1 {
		t.Fatal("expected invoice keyword hit regardless of case")
	}
}

func TestExtractNoExtension(t *testing.T) {
	vec := classify.Extract(record("README", 100))
	if vec.Extension != "" {
		t.Fatalf("expected empty extension, got %q", vec.Extension)
	}
	if got := vec.Values[featureIndex(t, "ext_match_others")]; got != 0 {
		t.Fatalf("expected no extension match, got %v", got)
	}
}

func TestSizeCategoryBuckets(t *testing.T) {
	cases := []struct {
		size int64
		want float64
	}{
		{0, 0},
		{1024, 0},
		{1025, 1},
		{100_000, 1},
		{100_001, 2},
		{10_000_000, 2},
		{10_000_001, 3},
		{100_000_000, 3},
		{100_000_001, 4},
	}
	idx := featureIndex(t, "size_category")
	for _, tc := range cases {
		vec := classify.Extract(record("file.bin", tc.size))
		if got := vec.Values[idx]; got != tc.want {
			t.Fatalf("size %d: expected bucket %v, got %v", tc.size, tc.want, got)
		}
	}
}

func TestWordCountSplitsOnSeparators(t *testing.T) {
	cases := []struct {
		name string
		want float64
	}{
		{"one.txt", 1},
		{"two_words.txt", 2},
		{"a-b_c d.txt", 4},
		{"trailing_.txt", 1},
	}
	idx := featureIndex(t, "word_count")
	for _, tc := range cases {
		vec := classify.Extract(record(tc.name, 100))
		if got := vec.Values[idx]; got != tc.want {
			t.Fatalf("%s: expected %v words, got %v", tc.name, tc.want, got)
		}
	}
}

func TestParseCategoryAndFolders(t *testing.T) {
	cats := classify.Categories()
	if len(cats) != classify.CategoryCount {
		t.Fatalf("expected %d categories, got %d", classify.CategoryCount, len(cats))
	}
	for _, cat := range cats {
		parsed, ok := classify.ParseCategory(string(cat))
		if !ok || parsed != cat {
			t.Fatalf("round trip failed for %s", cat)
		}
		if cat.FolderName() == "" {
			t.Fatalf("empty folder name for %s", cat)
		}
	}
	if _, ok := classify.ParseCategory("Unknown"); ok {
		t.Fatal("expected unknown category to fail parsing")
	}
	if classify.ManualReviewFolder != "Manual_Review" {
		t.Fatalf("unexpected review folder %s", classify.ManualReviewFolder)
	}
}
