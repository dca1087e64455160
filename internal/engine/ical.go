package engine

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-age/internal/config"
)

// renderCalendar builds an iCalendar with one all-day event per report at
// the person's next birthday. When no reports exist it returns a minimal
// valid VCALENDAR so feed clients never see an empty/invalid body.
func renderCalendar(now time.Time, reports []PersonReport, reminderTrigger string,
	formatSummary func(name string, age int, yearKnown bool) string) ([]byte, error) {

	if len(reports) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986: suggest a refresh interval.
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// ICS stamps are UTC; birthday logic stays in local calendar dates.
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	for _, rep := range reports {
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID,
			fmt.Sprintf(config.FormatUID, rep.UID, rep.NextBirthday.Year(), config.ICalDomain))

		summary := fmt.Sprintf(config.FallbackSummary, rep.Name)
		if formatSummary != nil {
			summary = formatSummary(rep.Name, rep.AgeNext, rep.YearKnown)
		} else if rep.YearKnown {
			summary = fmt.Sprintf(config.FallbackSummaryAge, rep.Name, rep.AgeNext)
		}
		event.Props.SetText(config.PropSummary, summary)

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(rep.NextBirthday)
		event.Props.Set(dtStartProp)
		event.Props.Set(dtStampProp)

		if reminderTrigger != "" {
			addAlarm(event, reminderTrigger, summary)
		}

		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set the trigger manually to avoid a VALUE=TEXT param.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
