package classify

import "strings"

// SchemaVersion identifies the feature schema this extractor emits. Model
// artifacts embed the schema they were trained with; a mismatch fails the
// load rather than silently misclassifying.
const SchemaVersion = 1

// FeatureCount is the width of the numeric vector: 5 basic, 3 lexical,
// 8 per-category keyword counts, 8 per-category extension flags.
const FeatureCount = 24

// featureColumnOrder mirrors the training data column layout. The keyword
// and extension blocks use the training column order, which predates the
// canonical alphabetical label ordering.
var featureColumnOrder = []Category{
	CategoryEducation,
	CategoryMovies,
	CategoryGames,
	CategoryApps,
	CategoryEntertainment,
	CategoryCareer,
	CategoryFinance,
	CategoryOthers,
}

var categoryKeywords = map[Category][]string{
	CategoryEducation: {
		"assignment", "notes", "class", "syllabus", "exam", "lecture", "worksheet",
		"college", "study", "textbook", "tutorial", "course", "homework", "quiz",
		"test", "university", "school", "academic", "research", "thesis",
		"dissertation", "math", "science", "biology", "chemistry", "physics",
		"computer", "programming", "algorithm", "data", "statistics",
	},
	CategoryMovies: {
		"movie", "film", "trailer", "cinema", "hd", "bluray", "dvd", "4k",
		"action", "comedy", "drama", "horror", "thriller", "adventure", "fantasy",
		"scifi", "romance", "animation", "documentary", "imax", "extended",
		"directors", "cut", "unrated", "remastered",
	},
	CategoryGames: {
		"game", "gaming", "setup", "install", "launcher", "steam", "epic",
		"origin", "battle", "playstation", "xbox", "nintendo", "mod", "patch",
		"dlc", "expansion", "multiplayer", "online", "rpg", "fps", "strategy",
		"puzzle", "arcade", "simulation", "sports",
	},
	CategoryApps: {
		"app", "application", "software", "program", "tool", "utility",
		"installer", "setup", "exe", "dmg", "pkg", "deb", "rpm", "snap",
		"flatpak", "portable", "professional", "enterprise", "business",
		"productivity", "editor", "browser", "client",
	},
	CategoryEntertainment: {
		"music", "song", "audio", "video", "entertainment", "comedy", "funny",
		"viral", "trending", "podcast", "stream", "live", "concert", "album",
		"playlist", "mix", "dance", "party", "show", "series", "episode",
		"channel", "youtube", "tiktok", "instagram",
	},
	CategoryCareer: {
		"resume", "cv", "career", "job", "work", "professional", "interview",
		"application", "cover", "letter", "linkedin", "portfolio", "project",
		"skill", "certification", "training", "development", "management",
		"leadership", "performance", "review", "promotion", "salary", "negotiation",
	},
	CategoryFinance: {
		"finance", "financial", "money", "bank", "banking", "invoice", "bill",
		"receipt", "statement", "tax", "salary", "payroll", "budget", "expense",
		"income", "investment", "stock", "crypto", "currency", "loan", "mortgage",
		"insurance", "audit", "accounting",
	},
	CategoryOthers: {
		"temp", "temporary", "cache", "data", "config", "system", "log",
		"backup", "archive", "database", "misc", "other", "unknown", "file",
		"document", "folder", "directory", "settings", "preferences", "metadata",
		"info", "readme", "license", "changelog",
	},
}

var categoryExtensions = map[Category][]string{
	CategoryEducation:     {".pdf", ".docx", ".pptx", ".txt", ".doc", ".ppt", ".rtf", ".tex", ".epub", ".bib"},
	CategoryMovies:        {".mp4", ".mkv", ".avi", ".mov", ".wmv", ".flv", ".webm", ".m4v", ".mpg", ".mpeg"},
	CategoryGames:         {".exe", ".zip", ".rar", ".7z", ".iso", ".msi", ".apk", ".dmg", ".pkg", ".deb"},
	CategoryApps:          {".exe", ".msi", ".dmg", ".pkg", ".deb", ".rpm", ".snap", ".flatpak", ".appimage", ".tar.gz"},
	CategoryEntertainment: {".mp3", ".wav", ".flac", ".aac", ".ogg", ".m4a", ".wma", ".mp4", ".webm", ".mkv"},
	CategoryCareer:        {".pdf", ".docx", ".doc", ".txt", ".rtf", ".odt"},
	CategoryFinance:       {".pdf", ".xlsx", ".xls", ".csv", ".txt", ".docx"},
	CategoryOthers:        {".dat", ".bin", ".tmp", ".log", ".cfg", ".ini", ".xml", ".json", ".db", ".sqlite", ".bak", ".old"},
}

// Size bucket thresholds in bytes, matching the training data generator.
const (
	sizeTinyMax   = 1024
	sizeSmallMax  = 100_000
	sizeMediumMax = 10_000_000
	sizeLargeMax  = 100_000_000
)

// FeatureVector is the ordered numeric representation of a FileRecord.
// Values follows the canonical column order returned by FeatureNames.
// Values[0] is the encoded extension ordinal; the extractor leaves it at
// zero and retains the raw extension so the model can apply its own
// training-time encoding (unseen extensions map to a reserved code).
type FeatureVector struct {
	Extension string
	Values    []float64
}

// FeatureNames returns the canonical ordered feature names for the current
// schema version.
func FeatureNames() []string {
	names := make([]string, 0, FeatureCount)
	names = append(names,
		"extension", "name_length", "size_bytes", "size_category",
		"has_numbers", "has_underscore", "has_dash", "word_count",
	)
	for _, cat := range featureColumnOrder {
		names = append(names, "keywords_"+strings.ToLower(string(cat)))
	}
	for _, cat := range featureColumnOrder {
		names = append(names, "ext_match_"+strings.ToLower(string(cat)))
	}
	return names
}

// Extract converts a FileRecord into its feature vector. It is pure and
// total: every well-formed record yields a vector.
func Extract(record FileRecord) FeatureVector {
	values := make([]float64, 0, FeatureCount)

	name := record.Name
	values = append(values,
		0, // extension ordinal, encoded against the model's table at predict time
		float64(len(name)),
		float64(record.SizeBytes),
		float64(sizeCategory(record.SizeBytes)),
		boolFeature(containsDigit(name)),
		float64(strings.Count(name, "_")),
		float64(strings.Count(name, "-")),
		float64(wordCount(name)),
	)

	for _, cat := range featureColumnOrder {
		count := 0
		for _, keyword := range categoryKeywords[cat] {
			if strings.Contains(name, keyword) {
				count++
			}
		}
		values = append(values, float64(count))
	}

	for _, cat := range featureColumnOrder {
		values = append(values, boolFeature(extensionMatches(cat, record.Extension)))
	}

	return FeatureVector{Extension: record.Extension, Values: values}
}

// ExtensionMatches reports whether ext belongs to the category's known
// extension set.
func ExtensionMatches(cat Category, ext string) bool {
	return extensionMatches(cat, foldCaser.String(ext))
}

func extensionMatches(cat Category, ext string) bool {
	if ext == "" {
		return false
	}
	for _, candidate := range categoryExtensions[cat] {
		if candidate == ext {
			return true
		}
	}
	return false
}

func sizeCategory(size int64) int {
	switch {
	case size <= sizeTinyMax:
		return 0
	case size <= sizeSmallMax:
		return 1
	case size <= sizeMediumMax:
		return 2
	case size <= sizeLargeMax:
		return 3
	default:
		return 4
	}
}

func containsDigit(value string) bool {
	for _, r := range value {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func wordCount(value string) int {
	normalized := strings.NewReplacer("_", " ", "-", " ").Replace(value)
	return len(strings.Fields(normalized))
}

func boolFeature(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
