package destination

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/FACorreiaa/go-travel-recommender/internal/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so messages match the dataset columns
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// splitActivities turns a comma separated tag list into trimmed, distinct tags.
func splitActivities(raw string) []string {
	return normalizeActivities(strings.Split(raw, ","))
}

func normalizeActivities(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func validateDestination(d types.Destination) error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: destination %d: %s", types.ErrInvalidRecord, d.ID, describe(err))
	}
	return nil
}

func validateVisit(v types.Visit) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: visit of user %d to destination %d: %s",
			types.ErrInvalidRecord, v.UserID, v.DestinationID, describe(err))
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() == "" {
			msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s=%v violates %s=%s", fe.Field(), fe.Value(), fe.Tag(), fe.Param()))
	}
	return strings.Join(msgs, "; ")
}
