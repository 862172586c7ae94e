package classify

import "strings"

// Category is one of the fixed destination labels a file can be assigned to.
type Category string

const (
	CategoryApps          Category = "Apps"
	CategoryCareer        Category = "Career"
	CategoryEducation     Category = "Education"
	CategoryEntertainment Category = "Entertainment"
	CategoryFinance       Category = "Finance"
	CategoryGames         Category = "Games"
	CategoryMovies        Category = "Movies"
	CategoryOthers        Category = "Others"
)

// ManualReviewFolder is the destination folder for low-confidence routings.
// It is a routing outcome, not a model label.
const ManualReviewFolder = "Manual_Review"

// categories holds the closed label set in canonical (alphabetical) order.
// Prediction tie-breaks and artifact label lists rely on this ordering.
var categories = []Category{
	CategoryApps,
	CategoryCareer,
	CategoryEducation,
	CategoryEntertainment,
	CategoryFinance,
	CategoryGames,
	CategoryMovies,
	CategoryOthers,
}

var categorySet = func() map[Category]struct{} {
	set := make(map[Category]struct{}, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return set
}()

// Categories returns the ordered list of known categories.
func Categories() []Category {
	cp := make([]Category, len(categories))
	copy(cp, categories)
	return cp
}

// CategoryCount is the size of the closed label set.
const CategoryCount = 8

// ParseCategory converts a string into a known Category.
func ParseCategory(value string) (Category, bool) {
	trimmed := strings.TrimSpace(value)
	for _, c := range categories {
		if strings.EqualFold(trimmed, string(c)) {
			return c, true
		}
	}
	return "", false
}

// FolderName returns the library subdirectory for a category.
func (c Category) FolderName() string {
	return string(c)
}

// Known reports whether the category belongs to the closed label set.
func (c Category) Known() bool {
	_, ok := categorySet[c]
	return ok
}
