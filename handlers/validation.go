package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/Dosada05/pickleball-scorecard/models"
	"github.com/Dosada05/pickleball-scorecard/services"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report errors under JSON names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateRoster, services.CreateMatchInput{})
	return v
}

// validateRoster requires one player per team for singles and two per team for doubles.
func validateRoster(sl validator.StructLevel) {
	input := sl.Current().Interface().(services.CreateMatchInput)

	format := input.Config.GameFormat
	if format == "" {
		format = models.DefaultGameFormat
	}
	if !format.Valid() {
		return
	}

	perTeam := format.PlayersPerTeam()
	var team1, team2 int
	for _, p := range input.Players {
		switch p.Team {
		case models.Team1:
			team1++
		case models.Team2:
			team2++
		}
	}
	if len(input.Players) != 2*perTeam || team1 != perTeam || team2 != perTeam {
		sl.ReportError(input.Players, "players", "Players", "roster", strconv.Itoa(perTeam))
	}
}

// validateInput returns field errors keyed by JSON path, or nil when dst is valid.
func validateInput(dst any) map[string]string {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"body": err.Error()}
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fieldPath(fe)] = fieldMessage(fe)
	}
	return out
}

func fieldPath(fe validator.FieldError) string {
	_, path, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return path
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must be provided"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not be longer than %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "roster":
		return fmt.Sprintf("must list exactly %s player(s) per team", fe.Param())
	default:
		return "is invalid"
	}
}
