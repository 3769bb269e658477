package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/meghashyamc/filefind/services/search"
	"github.com/spf13/pflag"
)

// parseDate parses YYYY-MM-DD, YYYY-MM-DD HH:MM:SS or RFC3339 in local time.
// An empty string is an open bound.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	for _, layout := range []string{time.DateOnly, time.DateTime} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}

	return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD, YYYY-MM-DD HH:MM:SS, or RFC3339)", s)
}

// dateRange parses a pair of flag values into a range.
func dateRange(from, to string) (search.DateRange, error) {
	fromTime, err := parseDate(from)
	if err != nil {
		return search.DateRange{}, err
	}
	toTime, err := parseDate(to)
	if err != nil {
		return search.DateRange{}, err
	}
	return search.DateRange{From: fromTime, To: toTime}, nil
}

// changedFloat returns the flag value only when the user set it.
func changedFloat(flags *pflag.FlagSet, name string) (*float64, error) {
	if !flags.Changed(name) {
		return nil, nil
	}
	value, err := flags.GetFloat64(name)
	if err != nil {
		return nil, err
	}
	if value < 0 {
		return nil, fmt.Errorf("--%s cannot be negative", name)
	}
	return &value, nil
}

// typeFlag implements pflag.Value for the files/folders/both selection.
type typeFlag search.TypeFilter

func (f *typeFlag) String() string {
	if *f == typeFlag(search.TypeBoth) {
		return "both"
	}
	return string(*f)
}

func (f *typeFlag) Set(v string) error {
	filter, ok := search.ParseTypeFilter(v)
	if !ok {
		return fmt.Errorf("must be one of \"files\", \"folders\", or \"both\"")
	}
	*f = typeFlag(filter)
	return nil
}

func (f *typeFlag) Type() string {
	return "type"
}

// sortFlag implements pflag.Value for the sort key.
type sortFlag search.SortKey

func (f *sortFlag) String() string {
	if *f == sortFlag(search.SortNone) {
		return "none"
	}
	return string(*f)
}

func (f *sortFlag) Set(v string) error {
	key, ok := search.ParseSortKey(v)
	if !ok {
		return fmt.Errorf("must be one of \"none\", \"name\", \"size\", \"modified\", \"created\", or \"path\"")
	}
	*f = sortFlag(key)
	return nil
}

func (f *sortFlag) Type() string {
	return "key"
}

// promptConfirm asks on out and reads a yes or no answer from in. Anything
// but y or yes declines.
func promptConfirm(in io.Reader, out io.Writer) search.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(spec search.FilterSpec, root string) bool {
		fmt.Fprintf(out, "Search in %s? [y/N] ", root)
		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}
}
