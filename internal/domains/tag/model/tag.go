package model

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"address-console/internal/shared/response"
)

// GeneralCategory chứa các tag không có prefix "category:"
const GeneralCategory = "general"

// TagCategories là mapping category -> tags của một language partition
type TagCategories struct {
	Categories  map[string][]string `json:"categories"`
	RefreshedAt int64               `json:"refreshedAt"` // epoch ms
	Language    string              `json:"language"`
}

// Categorize nhóm tags theo prefix "category:tag", tag trần vào GeneralCategory.
// Tags trong mỗi category được sort và bỏ trùng.
func Categorize(tags []string) map[string][]string {
	sets := make(map[string]map[string]struct{})
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		category := GeneralCategory
		if i := strings.Index(t, ":"); i > 0 && i < len(t)-1 {
			category = t[:i]
		}
		if sets[category] == nil {
			sets[category] = make(map[string]struct{})
		}
		sets[category][t] = struct{}{}
	}

	out := make(map[string][]string, len(sets))
	for category, set := range sets {
		list := make([]string, 0, len(set))
		for t := range set {
			list = append(list, t)
		}
		sort.Strings(list)
		out[category] = list
	}
	return out
}

type TagError struct {
	Code    string
	Message string
}

func (e *TagError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

const CodeInvalidLanguage = "INVALID_LANGUAGE"

func NewInvalidLanguage(language string) *TagError {
	return &TagError{Code: CodeInvalidLanguage, Message: fmt.Sprintf("Invalid language: %q", language)}
}

// MapErrorToHTTP trả về status, message và code cho handler
func MapErrorToHTTP(err error) (int, string, string) {
	var tagErr *TagError
	if errors.As(err, &tagErr) {
		return http.StatusBadRequest, tagErr.Message, tagErr.Code
	}
	return response.MapCommonError(err)
}
