package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/spf13/pflag"
)

const dateLayout = "2006-01-02"

// categoryValue is a pflag.Value accepting canonical or API category names.
type categoryValue domain.Category

func newCategoryValue(p *domain.Category) *categoryValue { return (*categoryValue)(p) }

func (v *categoryValue) String() string { return string(*v) }
func (v *categoryValue) Type() string   { return "category" }

func (v *categoryValue) Set(s string) error {
	c, err := domain.ParseCategory(s)
	if err != nil {
		return err
	}
	*v = categoryValue(c)
	return nil
}

type priorityValue domain.Priority

func newPriorityValue(p *domain.Priority) *priorityValue { return (*priorityValue)(p) }

func (v *priorityValue) String() string { return string(*v) }
func (v *priorityValue) Type() string   { return "priority" }

func (v *priorityValue) Set(s string) error {
	p, err := domain.ParsePriority(s)
	if err != nil {
		return err
	}
	*v = priorityValue(p)
	return nil
}

type statusValue domain.PlanStatus

func newStatusValue(p *domain.PlanStatus) *statusValue { return (*statusValue)(p) }

func (v *statusValue) String() string { return string(*v) }
func (v *statusValue) Type() string   { return "status" }

func (v *statusValue) Set(s string) error {
	st, err := domain.ParsePlanStatus(s)
	if err != nil {
		return err
	}
	*v = statusValue(st)
	return nil
}

// dateValue is a pflag.Value for YYYY-MM-DD dates, nil until set.
type dateValue struct {
	t **time.Time
}

func newDateValue(p **time.Time) dateValue { return dateValue{t: p} }

func (v dateValue) String() string {
	if v.t == nil || *v.t == nil {
		return ""
	}
	return (*v.t).Format(dateLayout)
}

func (v dateValue) Type() string { return "date" }

func (v dateValue) Set(s string) error {
	d, err := parseDate(s)
	if err != nil {
		return err
	}
	*v.t = &d
	return nil
}

var (
	_ pflag.Value = (*categoryValue)(nil)
	_ pflag.Value = (*priorityValue)(nil)
	_ pflag.Value = (*statusValue)(nil)
	_ pflag.Value = dateValue{}
)

func parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

func categoryNames() string {
	names := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
