package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"laundry-queue-backend/internal/model"
)

func TestDuration(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  int
		expectErr bool
	}{
		{name: "Bare minutes", raw: "45", expected: 45},
		{name: "Short suffix", raw: "45m", expected: 45},
		{name: "Spaced word", raw: " 90 minutes ", expected: 90},
		{name: "Hours only", raw: "1h", expected: 60},
		{name: "Hours and minutes", raw: "1h 30m", expected: 90},
		{name: "Compact", raw: "2hrs15min", expected: 135},
		{name: "Upper case", raw: "2 HOURS", expected: 120},
		{name: "Empty", raw: "", expectErr: true},
		{name: "Garbage", raw: "soon", expectErr: true},
		{name: "Negative", raw: "-5", expectErr: true},
		{name: "Seconds are not supported", raw: "30s", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Duration(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, got)
			}
		})
	}
}

func TestCategory(t *testing.T) {
	testCases := []struct {
		raw       string
		expected  model.MachineCategory
		expectErr bool
	}{
		{raw: "washer", expected: model.CategoryWasher},
		{raw: "Washing-Machine", expected: model.CategoryWasher},
		{raw: " washing_machine ", expected: model.CategoryWasher},
		{raw: "DRYER", expected: model.CategoryDryer},
		{raw: "tumble dryer", expected: model.CategoryDryer},
		{raw: "iron", expectErr: true},
		{raw: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := Category(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, got)
			}
		})
	}
}

func TestIdentity(t *testing.T) {
	testCases := []struct {
		name        string
		userID      string
		accountType string
		expected    model.Requester
		expectErr   bool
	}{
		{name: "Default user", userID: "12", expected: model.Requester{ID: 12, Type: model.AccountUser}},
		{name: "Explicit user", userID: "12", accountType: "user", expected: model.Requester{ID: 12, Type: model.AccountUser}},
		{name: "Operator", userID: " 7 ", accountType: "Operator", expected: model.Requester{ID: 7, Type: model.AccountOperator}},
		{name: "Missing id", userID: "", expectErr: true},
		{name: "Zero id", userID: "0", expectErr: true},
		{name: "Unknown type", userID: "3", accountType: "admin", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Identity(tc.userID, tc.accountType)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, got)
			}
		})
	}
}

func TestID(t *testing.T) {
	id, err := ID("42")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "-1", "0", "1.5"} {
		_, err := ID(raw)
		assert.Error(t, err, raw)
	}
}
