package xcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perpetuaflow/recurrence/rrule"
)

func TestEncodeRule(t *testing.T) {
	rule := rrule.MustParse("FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,FR;COUNT=10")

	recur := EncodeRule(rule)

	assert.Equal(t, "recur", recur.Tag)
	assert.Equal(t, "WEEKLY", recur.SelectElement("freq").Text())
	assert.Equal(t, "2", recur.SelectElement("interval").Text())

	var days []string
	for _, elem := range recur.SelectElements("byday") {
		days = append(days, elem.Text())
	}
	assert.Equal(t, []string{"MO", "FR"}, days)
	assert.Equal(t, "10", recur.SelectElement("count").Text())
	assert.Nil(t, recur.SelectElement("until"))
}

func TestEncodeRule_MinimalDaily(t *testing.T) {
	recur := EncodeRule(rrule.MustParse("FREQ=DAILY"))

	assert.Equal(t, "DAILY", recur.SelectElement("freq").Text())
	assert.Nil(t, recur.SelectElement("interval"), "default interval stays implicit")
	assert.Empty(t, recur.SelectElements("byday"))
	assert.Nil(t, recur.SelectElement("count"))
}

func TestEncodeRule_Until(t *testing.T) {
	recur := EncodeRule(rrule.MustParse("FREQ=MONTHLY;BYMONTHDAY=-1;UNTIL=20251231T235959Z"))

	assert.Equal(t, "-1", recur.SelectElement("bymonthday").Text())
	assert.Equal(t, "2025-12-31T23:59:59Z", recur.SelectElement("until").Text())
}

func TestEncodeTime(t *testing.T) {
	t.Run("utc", func(t *testing.T) {
		elem := EncodeTime(time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC))
		assert.Equal(t, "2024-05-01T09:30:00Z", elem.Text())
		assert.Nil(t, elem.SelectAttr("tzid"))
	})

	t.Run("named zone", func(t *testing.T) {
		loc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)
		elem := EncodeTime(time.Date(2024, 5, 1, 9, 30, 0, 0, loc))

		require.NotNil(t, elem.SelectAttr("tzid"))
		assert.Equal(t, "America/New_York", elem.SelectAttrValue("tzid", ""))
		assert.Equal(t, "2024-05-01T09:30:00", elem.Text())
	})
}

func TestEncodeOccurrencesAndDocument(t *testing.T) {
	times := []time.Time{
		time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC),
	}

	doc := Document(EncodeOccurrences(times))
	out, err := doc.WriteToString()
	require.NoError(t, err)

	assert.Contains(t, out, `<icalendar xmlns="urn:ietf:params:xml:ns:icalendar-2.0">`)
	assert.Contains(t, out, "2024-05-01T09:00:00Z")
	assert.Contains(t, out, "2024-05-02T09:00:00Z")

	root := doc.FindElement("//occurrences")
	require.NotNil(t, root)
	assert.Len(t, root.SelectElements("date-time"), 2)
}
