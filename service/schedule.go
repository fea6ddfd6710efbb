package service

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"cinema-scheduler-cli/model"
	"cinema-scheduler-cli/store"
)

// DuplicateShowMessage is the banner shown when the uniqueness rule trips.
const DuplicateShowMessage = "This combination of theater, movie, date, and time already exists"

var showTimePattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

var validate = newShowValidator()

func newShowValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "dateformat", func(fl validator.FieldLevel) bool {
		return len(strings.Split(fl.Field().String(), "/")) == 3
	})
	mustRegister(v, "datevalue", func(fl validator.FieldLevel) bool {
		_, err := ParseShowDate(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "weekday", func(fl validator.FieldLevel) bool {
		d, err := ParseShowDate(fl.Field().String())
		if err != nil {
			return true
		}
		return d.Weekday() != time.Saturday && d.Weekday() != time.Sunday
	})
	mustRegister(v, "beforeend", func(fl validator.FieldLevel) bool {
		end := strings.TrimSpace(fl.Parent().FieldByName("EndDate").String())
		if end == "" {
			return true
		}
		d, err := ParseShowDate(fl.Field().String())
		if err != nil {
			return true
		}
		bound, err := time.Parse(time.DateOnly, end)
		if err != nil {
			return true
		}
		return !d.After(bound)
	})
	mustRegister(v, "showtime", func(fl validator.FieldLevel) bool {
		return showTimePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "price", func(fl validator.FieldLevel) bool {
		n, err := strconv.ParseFloat(fl.Field().String(), 64)
		return err == nil && n > 0
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// fieldKeys maps ShowForm struct fields to the keys used for error reporting.
var fieldKeys = map[string]string{
	"MovieTitle":  "movieTitle",
	"Theater":     "theater",
	"ShowDate":    "showDate",
	"ShowTime":    "showTime",
	"TicketPrice": "ticketPrice",
	"Notes":       "notes",
}

var fieldMessages = map[string]map[string]string{
	"MovieTitle": {
		"required": "Movie Title is required",
	},
	"Theater": {
		"required": "Theater is required",
	},
	"ShowDate": {
		"required":   "Show Date is required",
		"dateformat": "Date must be in dd/mm/yyyy format",
		"datevalue":  "Invalid date",
		"weekday":    "Show Date must be a weekday",
		"beforeend":  "Show Date cannot be after End Date",
	},
	"ShowTime": {
		"required": "Show Time is required",
		"showtime": "Show Time must be in HH:MM format (24-hour)",
	},
	"TicketPrice": {
		"required": "Ticket Price is required",
		"price":    "Ticket Price must be a valid positive number",
	},
	"Notes": {
		"max": "Notes must be 50 characters or less",
	},
}

// Validation is the outcome of checking a candidate show. Field errors are
// keyed by field name; the uniqueness violation is reported separately because
// the UI renders it as a banner rather than under a field.
type Validation struct {
	Fields    map[string]string
	Duplicate bool
}

// OK reports whether the candidate may be persisted.
func (v Validation) OK() bool {
	return len(v.Fields) == 0 && !v.Duplicate
}

// ValidateShow checks form against the business rules and the stored records.
// Every field is evaluated; within a field the first failing rule wins.
func ValidateShow(form model.ShowForm, existing []model.ShowRecord) Validation {
	result := Validation{Fields: map[string]string{}}

	if err := validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				key, ok := fieldKeys[fe.StructField()]
				if !ok {
					continue
				}
				if _, seen := result.Fields[key]; seen {
					continue
				}
				result.Fields[key] = messageFor(fe)
			}
		}
	}

	if form.Theater != "" && form.MovieTitle != "" && form.ShowDate != "" && form.ShowTime != "" {
		for _, rec := range existing {
			if rec.Theater == form.Theater &&
				rec.MovieTitle == form.MovieTitle &&
				rec.ShowDate == form.ShowDate &&
				rec.ShowTime == form.ShowTime {
				result.Duplicate = true
				break
			}
		}
	}
	return result
}

func messageFor(fe validator.FieldError) string {
	if msgs, ok := fieldMessages[fe.StructField()]; ok {
		if msg, ok := msgs[fe.Tag()]; ok {
			return msg
		}
	}
	return fmt.Sprintf("%s is invalid", fe.StructField())
}

// ParseShowDate parses a dd/mm/yyyy string into a calendar date, rejecting
// dates that do not exist (time.Date would silently normalize them).
func ParseShowDate(value string) (time.Time, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("show date %q is not dd/mm/yyyy", value)
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, fmt.Errorf("show date %q: bad day: %w", value, err)
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, fmt.Errorf("show date %q: bad month: %w", value, err)
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return time.Time{}, fmt.Errorf("show date %q: bad year: %w", value, err)
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, fmt.Errorf("show date %q is not a real calendar date", value)
	}
	return d, nil
}

// BuildShow derives the computed fields from a validated form and assigns the
// record its identity. The caller supplies the current stored count; the new
// id is count+1 and is never reused or renumbered.
func BuildShow(form model.ShowForm, existingCount int, now time.Time) (model.ShowRecord, error) {
	price, err := strconv.ParseFloat(form.TicketPrice, 64)
	if err != nil {
		return model.ShowRecord{}, fmt.Errorf("parse ticket price: %w", err)
	}
	showDate, err := ParseShowDate(form.ShowDate)
	if err != nil {
		return model.ShowRecord{}, fmt.Errorf("parse show date: %w", err)
	}

	return model.ShowRecord{
		ShowID:              existingCount + 1,
		MovieTitle:          form.MovieTitle,
		Theater:             form.Theater,
		ShowDate:            form.ShowDate,
		ShowTime:            form.ShowTime,
		EndDate:             showDate.AddDate(0, 0, 7).Format(time.DateOnly),
		TicketPrice:         form.TicketPrice,
		DiscountPrice:       fmt.Sprintf("%.2f", price*0.7),
		SeniorDiscountPrice: fmt.Sprintf("%.2f", price*0.4),
		Subtitles:           form.Subtitles,
		Imax:                form.Imax,
		Notes:               form.Notes,
		SavedAt:             now,
	}, nil
}

// Scheduler wires the form workflow: validate against the stored collection,
// build the record, persist it in a single append.
type Scheduler struct {
	store *store.Store
}

func NewScheduler(s *store.Store) *Scheduler {
	return &Scheduler{store: s}
}

// Shows returns the stored collection.
func (s *Scheduler) Shows() []model.ShowRecord {
	return s.store.LoadShows()
}

// Clear empties the stored collection.
func (s *Scheduler) Clear() error {
	return s.store.ClearShows()
}

// SaveShow runs the full pipeline for a candidate. When validation fails the
// returned Validation carries the reasons and nothing is persisted. A build
// failure after successful validation is an internal fault: it is logged and
// returned as an error, and no partial record is written.
func (s *Scheduler) SaveShow(form model.ShowForm) (model.ShowRecord, Validation, error) {
	existing := s.store.LoadShows()

	v := ValidateShow(form, existing)
	if !v.OK() {
		return model.ShowRecord{}, v, nil
	}

	rec, err := BuildShow(form, len(existing), time.Now())
	if err != nil {
		log.Error("show build failed after validation", "err", err)
		return model.ShowRecord{}, v, err
	}
	if err := s.store.AppendShow(rec); err != nil {
		log.Error("persist show", "err", err)
		return model.ShowRecord{}, v, err
	}
	return rec, v, nil
}
