// Package sampledata generates synthetic appointment histories in the import
// CSV format.
package sampledata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"time"

	"showup-server/internal/importer"
)

const historyDays = 180

var appointmentTypes = []string{"cleaning", "checkup", "filling", "extraction", "root_canal", "crown"}

var bookableHours = []int{8, 9, 10, 11, 13, 14, 15, 16, 17}

// archetype is a kind of patient with a baseline attendance probability.
type archetype struct {
	name     string
	share    float64 // cumulative upper bound of the draw
	showRate float64
}

var archetypes = []archetype{
	{"reliable", 0.4, 0.95},
	{"mostly_reliable", 0.7, 0.85},
	{"inconsistent", 0.9, 0.60},
	{"unreliable", 1.0, 0.30},
}

// Options controls the size and randomness of a generated history.
type Options struct {
	Patients               int
	AppointmentsPerPatient int
	Seed                   int64
	Now                    time.Time
}

// DefaultOptions returns 50 patients with 6 booking attempts each.
func DefaultOptions() Options {
	return Options{Patients: 50, AppointmentsPerPatient: 6, Seed: 42, Now: time.Now()}
}

// Appointment is one generated row.
type Appointment struct {
	PatientCode     string
	At              time.Time
	ShowedUp        bool
	AppointmentType string
}

// Generate produces a weekday-only history over the 180 days before opts.Now.
// Bookings that land on a weekend are dropped, so patients may end up with
// fewer than AppointmentsPerPatient rows.
func Generate(opts Options) []Appointment {
	rng := rand.New(rand.NewSource(opts.Seed))
	start := opts.Now.AddDate(0, 0, -historyDays)

	var out []Appointment
	for i := 0; i < opts.Patients; i++ {
		code := fmt.Sprintf("P%03d", i+1)
		kind := pickArchetype(rng.Float64())

		for n := 0; n < opts.AppointmentsPerPatient; n++ {
			day := start.AddDate(0, 0, rng.Intn(historyDays+1))
			hour := bookableHours[rng.Intn(len(bookableHours))]
			at := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
			if at.Weekday() == time.Saturday || at.Weekday() == time.Sunday {
				continue
			}

			showedUp := rng.Float64() < showProbability(kind.showRate, at, n == 0)
			out = append(out, Appointment{
				PatientCode:     code,
				At:              at,
				ShowedUp:        showedUp,
				AppointmentType: appointmentTypes[rng.Intn(len(appointmentTypes))],
			})
		}
	}
	return out
}

func pickArchetype(draw float64) archetype {
	for _, a := range archetypes {
		if draw < a.share {
			return a
		}
	}
	return archetypes[len(archetypes)-1]
}

// showProbability applies the weekday, hour and first-visit effects to a
// baseline rate, clamped to [0, 1].
func showProbability(base float64, at time.Time, firstVisit bool) float64 {
	p := base
	if at.Weekday() == time.Monday && at.Hour() < 10 {
		p -= 0.15
	}
	if at.Weekday() == time.Friday && at.Hour() >= 14 {
		p += 0.10
	}
	if at.Hour() == 8 {
		p -= 0.10
	}
	if firstVisit {
		p -= 0.20
	}
	return min(1, max(0, p))
}

// WriteCSV writes appointments with the import header.
func WriteCSV(w io.Writer, appointments []Appointment) error {
	writer := csv.NewWriter(w)
	header := []string{
		importer.ColumnPatientCode,
		importer.ColumnAppointmentDateTime,
		importer.ColumnShowedUp,
		importer.ColumnAppointmentType,
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, a := range appointments {
		record := []string{
			a.PatientCode,
			a.At.Format("2006-01-02 15:04:05"),
			strconv.FormatBool(a.ShowedUp),
			a.AppointmentType,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Summary counts attendance in a generated history.
type Summary struct {
	Total   int
	Showed  int
	NoShows int
}

// Summarize counts attendance across appointments.
func Summarize(appointments []Appointment) Summary {
	s := Summary{Total: len(appointments)}
	for _, a := range appointments {
		if a.ShowedUp {
			s.Showed++
		}
	}
	s.NoShows = s.Total - s.Showed
	return s
}
