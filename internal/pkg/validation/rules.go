package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yigit/curriculum/internal/pkg/apperrors"
)

// Grade scale bounds. Lower is better.
const (
	MinGrade  = 0.0
	MaxGrade  = 6.0
	PassGrade = 4.0
)

// clearGradeTokens are the inputs that mean "remove the recorded grade".
var clearGradeTokens = map[string]struct{}{
	"":     {},
	"null": {},
}

// NormalizeTitle trims a course title and rejects empty or non string-like input.
func NormalizeTitle(raw interface{}) (string, error) {
	var title string
	switch v := raw.(type) {
	case string:
		title = v
	case *string:
		if v != nil {
			title = *v
		}
	case json.Number:
		// numbers are not titles
	case fmt.Stringer:
		title = v.String()
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperrors.NewValidationError(apperrors.MsgEmptyTitle)
	}
	return title, nil
}

// NormalizeGrade parses a grade input. A nil result without error means the
// grade should be cleared.
func NormalizeGrade(raw interface{}) (*float64, error) {
	var text string
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		text = v
	case *string:
		if v == nil {
			return nil, nil
		}
		text = *v
	case json.Number:
		text = string(v)
	case float64:
		return checkGradeRange(v)
	case float32:
		return checkGradeRange(float64(v))
	case int:
		return checkGradeRange(float64(v))
	case int64:
		return checkGradeRange(float64(v))
	default:
		text = fmt.Sprint(v)
	}

	if _, ok := clearGradeTokens[text]; ok {
		return nil, nil
	}

	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	if isHexLiteral(text) {
		return nil, apperrors.NewValidationError(apperrors.MsgNotANumber)
	}
	grade, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, apperrors.NewValidationError(apperrors.MsgOutOfRange)
		}
		return nil, apperrors.NewValidationError(apperrors.MsgNotANumber)
	}
	return checkGradeRange(grade)
}

// isHexLiteral reports whether text uses the 0x float syntax. Grades are
// decimal only.
func isHexLiteral(text string) bool {
	unsigned := strings.TrimLeft(text, "+-")
	return strings.HasPrefix(unsigned, "0x") || strings.HasPrefix(unsigned, "0X")
}

func checkGradeRange(grade float64) (*float64, error) {
	if math.IsNaN(grade) || grade < MinGrade || grade > MaxGrade {
		return nil, apperrors.NewValidationError(apperrors.MsgOutOfRange)
	}
	return &grade, nil
}

// IsPassingGrade reports whether grade lies on the passing side of the scale.
func IsPassingGrade(grade float64) bool {
	return grade <= PassGrade
}

// CoerceBool converts a loosely typed enrolment flag to a bool.
// false, nil, zero numbers and the empty string are false; anything else is true.
func CoerceBool(raw interface{}) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case []interface{}:
		return len(v) > 0
	case map[string]interface{}:
		return len(v) > 0
	default:
		return true
	}
}
