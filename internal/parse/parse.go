package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"laundry-queue-backend/internal/model"
)

var (
	spaceRe    = regexp.MustCompile(`[\s_\-]+`)
	durationRe = regexp.MustCompile(`(?i)^\s*(?:(\d+)\s*(?:h|hr|hrs|hour|hours))?\s*(?:(\d+)\s*(?:m|min|mins|minute|minutes)?)?\s*$`)
)

var categoryAliases = map[string]model.MachineCategory{
	"washer":          model.CategoryWasher,
	"wash":            model.CategoryWasher,
	"washing machine": model.CategoryWasher,
	"washingmachine":  model.CategoryWasher,
	"dryer":           model.CategoryDryer,
	"drier":           model.CategoryDryer,
	"dry":             model.CategoryDryer,
	"tumble dryer":    model.CategoryDryer,
}

// ID parses a positive integer identifier from a path or header value.
func ID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %q", raw)
	}
	return id, nil
}

// Identity builds a requester from the trusted identity headers. An empty
// account type means a regular user.
func Identity(userID, accountType string) (model.Requester, error) {
	id, err := ID(userID)
	if err != nil {
		return model.Requester{}, fmt.Errorf("invalid user id: %q", userID)
	}
	switch t := model.AccountType(strings.ToLower(strings.TrimSpace(accountType))); t {
	case "", model.AccountUser:
		return model.Requester{ID: id, Type: model.AccountUser}, nil
	case model.AccountOperator:
		return model.Requester{ID: id, Type: model.AccountOperator}, nil
	default:
		return model.Requester{}, fmt.Errorf("invalid account type: %q", accountType)
	}
}

// Category normalises a machine type such as "Washing-Machine" or "DRYER".
func Category(raw string) (model.MachineCategory, error) {
	key := strings.TrimSpace(spaceRe.ReplaceAllString(strings.ToLower(raw), " "))
	if c, ok := categoryAliases[key]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown machine type: %q", raw)
}

// Duration parses a cycle length in minutes from forms like "45",
// "45 min", "1h" or "1h 30m".
func Duration(raw string) (int, error) {
	m := durationRe.FindStringSubmatch(raw)
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, fmt.Errorf("unable to parse duration: %q", raw)
	}
	total := 0
	if m[1] != "" {
		h, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("unable to parse duration: %q", raw)
		}
		total += h * 60
	}
	if m[2] != "" {
		mins, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, fmt.Errorf("unable to parse duration: %q", raw)
		}
		total += mins
	}
	return total, nil
}
