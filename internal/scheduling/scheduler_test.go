package scheduling

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-app-server/internal/models"
)

type schedulerFixture struct {
	windows  *fakeWindows
	appts    *fakeAppointments
	invoices *fakeInvoices
	sched    *Scheduler
}

func newFixture(t *testing.T) *schedulerFixture {
	t.Helper()
	f := &schedulerFixture{
		windows:  newFakeWindows(),
		appts:    newFakeAppointments(),
		invoices: newFakeInvoices(),
	}
	f.windows.set("doc-1", time.Monday, "09:00", "10:00")
	f.sched = NewScheduler(f.windows, f.appts, f.invoices, zerolog.Nop())
	f.sched.now = func() time.Time {
		return time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)
	}
	return f
}

func (f *schedulerFixture) slots(t *testing.T, doctorID, date, exclude string) []string {
	t.Helper()
	options, err := f.sched.ListAvailableSlots(doctorID, date, exclude)
	require.NoError(t, err)
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.Slot
	}
	return out
}

func TestBookCancelScenario(t *testing.T) {
	f := newFixture(t)

	// Monday window 09:00-10:00 gives two candidate slots.
	assert.Equal(t, []string{"09:00", "09:30"}, f.slots(t, "doc-1", monday, ""))

	appt, err := f.sched.Create("pat-1", "doc-1", monday, "09:00", "first visit")
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, appt.Status)

	taken, err := f.sched.conflicts.IsTaken("doc-1", monday, TimeOfDay(9*60), "")
	require.NoError(t, err)
	assert.True(t, taken)
	assert.Equal(t, []string{"09:30"}, f.slots(t, "doc-1", monday, ""))

	_, err = f.sched.Cancel(appt.ID, Requester{UserID: "pat-1", Role: models.RolePatient})
	require.NoError(t, err)

	taken, err = f.sched.conflicts.IsTaken("doc-1", monday, TimeOfDay(9*60), "")
	require.NoError(t, err)
	assert.False(t, taken, "cancelled appointment frees the slot")
	assert.Equal(t, []string{"09:00", "09:30"}, f.slots(t, "doc-1", monday, ""))
}

func TestCreateConflict(t *testing.T) {
	f := newFixture(t)

	_, err := f.sched.Create("pat-1", "doc-1", monday, "09:00", "")
	require.NoError(t, err)

	_, err = f.sched.Create("pat-2", "doc-1", monday, "09:00", "")
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestCreateOutsideAvailability(t *testing.T) {
	f := newFixture(t)

	_, err := f.sched.Create("pat-1", "doc-1", monday, "14:00", "")
	assert.ErrorIs(t, err, ErrNotAvailable)

	_, err = f.sched.Create("pat-1", "doc-1", tuesday, "09:00", "")
	assert.ErrorIs(t, err, ErrNotAvailable, "no window on that weekday")

	_, err = f.sched.Create("pat-1", "doc-1", monday, "09:10", "")
	assert.ErrorIs(t, err, ErrNotAvailable, "slot off the 30-minute grid")
}

// Two concurrent submissions for the same free slot: exactly one succeeds
// and the other loses with a conflict, courtesy of the store's uniqueness
// claim.
func TestConcurrentCreateOneWinner(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.sched.Create("pat-1", "doc-1", monday, "09:30", "")
		}(i)
	}
	wg.Wait()

	var success, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			success++
		case err == ErrSlotConflict:
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, success)
	assert.Equal(t, 1, conflict)
}

func TestEditUnchangedTripleSkipsConflictCheck(t *testing.T) {
	f := newFixture(t)

	appt, err := f.sched.Create("pat-1", "doc-1", monday, "09:00", "")
	require.NoError(t, err)

	before := f.appts.conflictChecks
	updated, err := f.sched.Edit(appt.ID, appt.DoctorID, appt.Date, appt.Slot, "edited notes", models.StatusScheduled)
	require.NoError(t, err)
	assert.Equal(t, "edited notes", updated.Notes)
	assert.Equal(t, before, f.appts.conflictChecks, "unchanged doctor/date/slot skips the conflict check")
}

func TestEditDateOnlyOntoOccupiedSlot(t *testing.T) {
	f := newFixture(t)
	f.windows.set("doc-1", time.Tuesday, "09:00", "10:00")

	// Another patient holds Tuesday 09:00.
	_, err := f.sched.Create("pat-2", "doc-1", tuesday, "09:00", "")
	require.NoError(t, err)

	appt, err := f.sched.Create("pat-1", "doc-1", monday, "09:00", "")
	require.NoError(t, err)

	_, err = f.sched.Edit(appt.ID, appt.DoctorID, tuesday, appt.Slot, appt.Notes, models.StatusScheduled)
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestEditNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.sched.Edit("missing", "doc-1", monday, "09:00", "", models.StatusScheduled)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReschedule(t *testing.T) {
	f := newFixture(t)

	appt, err := f.sched.Create("pat-1", "doc-1", monday, "09:00", "")
	require.NoError(t, err)

	t.Run("wrong patient is forbidden", func(t *testing.T) {
		_, err := f.sched.Reschedule(appt.ID, "pat-2", monday, "09:30")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("past date is rejected", func(t *testing.T) {
		_, err := f.sched.Reschedule(appt.ID, "pat-1", "2026-01-26", "09:30")
		assert.True(t, IsValidation(err))
	})

	t.Run("outside availability window", func(t *testing.T) {
		_, err := f.sched.Reschedule(appt.ID, "pat-1", tuesday, "09:00")
		assert.ErrorIs(t, err, ErrNotAvailable)
	})

	t.Run("onto a taken slot", func(t *testing.T) {
		_, err := f.sched.Create("pat-2", "doc-1", monday, "09:30", "")
		require.NoError(t, err)
		_, err = f.sched.Reschedule(appt.ID, "pat-1", monday, "09:30")
		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("moves to a free future slot", func(t *testing.T) {
		// Next Monday, same window.
		moved, err := f.sched.Reschedule(appt.ID, "pat-1", "2026-03-09", "09:30")
		require.NoError(t, err)
		assert.Equal(t, "2026-03-09", moved.Date)
		assert.Equal(t, "09:30", moved.Slot)
		assert.Equal(t, "doc-1", moved.DoctorID, "doctor unchanged")
		assert.Equal(t, models.StatusScheduled, moved.Status, "status unchanged")
	})

	t.Run("own current slot stays selectable", func(t *testing.T) {
		current, err := f.appts.Get(appt.ID)
		require.NoError(t, err)

		options, err := f.sched.ListAvailableSlots("doc-1", current.Date, appt.ID)
		require.NoError(t, err)
		var flagged []string
		for _, o := range options {
			if o.IsCurrentSelection {
				flagged = append(flagged, o.Slot)
			}
		}
		assert.Equal(t, []string{current.Slot}, flagged)
	})

	t.Run("terminal appointment cannot be rescheduled", func(t *testing.T) {
		_, err := f.sched.Cancel(appt.ID, Requester{UserID: "pat-1", Role: models.RolePatient})
		require.NoError(t, err)
		_, err = f.sched.Reschedule(appt.ID, "pat-1", "2026-03-09", "09:00")
		assert.True(t, IsValidation(err))
	})
}

func TestCancelAuthorization(t *testing.T) {
	f := newFixture(t)

	appt, err := f.sched.Create("pat-1", "doc-1", monday, "09:00", "")
	require.NoError(t, err)

	_, err = f.sched.Cancel(appt.ID, Requester{UserID: "pat-2", Role: models.RolePatient})
	assert.ErrorIs(t, err, ErrForbidden)

	cancelled, err := f.sched.Cancel(appt.ID, Requester{UserID: "admin-1", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
}

func TestCancelTerminalIsNoOp(t *testing.T) {
	f := newFixture(t)

	appt, err := f.sched.Create("pat-1", "doc-1", monday, "09:00", "")
	require.NoError(t, err)
	_, err = f.sched.Complete(appt.ID, "doc-1", "all good")
	require.NoError(t, err)

	again, err := f.sched.Cancel(appt.ID, Requester{UserID: "pat-1", Role: models.RolePatient})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, again.Status, "terminal status is left alone")
}

func TestComplete(t *testing.T) {
	f := newFixture(t)

	appt, err := f.sched.Create("pat-1", "doc-1", monday, "09:00", "")
	require.NoError(t, err)

	_, err = f.sched.Complete(appt.ID, "doc-2", "notes")
	assert.ErrorIs(t, err, ErrForbidden, "only the appointment's doctor may complete it")

	done, err := f.sched.Complete(appt.ID, "doc-1", "follow up in six months")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, done.Status)
	assert.Equal(t, "follow up in six months", done.Notes)

	taken, err := f.sched.conflicts.IsTaken("doc-1", monday, TimeOfDay(9*60), "")
	require.NoError(t, err)
	assert.False(t, taken, "completed appointment does not occupy the slot")
}

func TestDeleteBlockedByInvoice(t *testing.T) {
	f := newFixture(t)

	appt, err := f.sched.Create("pat-1", "doc-1", monday, "09:00", "")
	require.NoError(t, err)
	f.invoices.invoiced[appt.ID] = true

	err = f.sched.Delete(appt.ID)
	assert.ErrorIs(t, err, ErrHasInvoice)

	_, err = f.appts.Get(appt.ID)
	assert.NoError(t, err, "appointment left intact")
}

func TestDelete(t *testing.T) {
	f := newFixture(t)

	appt, err := f.sched.Create("pat-1", "doc-1", monday, "09:00", "")
	require.NoError(t, err)

	require.NoError(t, f.sched.Delete(appt.ID))
	_, err = f.appts.Get(appt.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, f.sched.Delete(appt.ID), ErrNotFound)
}
