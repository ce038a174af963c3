package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/oakpoint-health/booking-portal/internal/awsconfig"
	appconfig "github.com/oakpoint-health/booking-portal/internal/config"
	"github.com/oakpoint-health/booking-portal/internal/server"
	"github.com/oakpoint-health/booking-portal/internal/slots"
	"github.com/oakpoint-health/booking-portal/pkg/logging"
)

const (
	openingHour = 9  // 09:00 AM
	closingHour = 17 // 05:00 PM, last bookable slot
)

func main() {
	days := flag.Int("days", 14, "how many days ahead to seed")
	flag.Parse()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var repo server.SlotRepository
	if cfg.UseMemoryRepo {
		logger.Error("seeding an in-memory repository is pointless; unset USE_MEMORY_REPO")
		os.Exit(1)
	}
	awsCfg, err := awsconfig.Load(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	repo = server.NewDynamoRepository(awsconfig.NewDynamoClient(awsCfg, cfg), cfg.SlotsTableName, logger)

	created, skipped := 0, 0
	for _, s := range upcomingSlots(time.Now(), *days) {
		ok, err := repo.CreateIfAbsent(ctx, s)
		if err != nil {
			logger.Error("failed to seed slot", "appointment_id", s.AppointmentID, "error", err)
			os.Exit(1)
		}
		if ok {
			created++
		} else {
			skipped++
		}
	}

	logger.Info("seeding complete",
		"table", cfg.SlotsTableName,
		"created", created,
		"already_present", skipped,
	)
}

// upcomingSlots generates hourly weekday slots from tomorrow through days
// ahead, opening to closing hour inclusive. IDs are deterministic so a rerun
// skips everything that already exists instead of duplicating it.
func upcomingSlots(from time.Time, days int) []slots.Slot {
	var out []slots.Slot
	for d := 1; d <= days; d++ {
		day := from.AddDate(0, 0, d)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		date := day.Format("2006-01-02")
		for hour := openingHour; hour <= closingHour; hour++ {
			out = append(out, slots.Slot{
				AppointmentID:   fmt.Sprintf("slot-%s-%02d00", date, hour),
				AppointmentDate: date,
				AppointmentTime: clockLabel(hour),
				Status:          slots.StatusAvailable,
			})
		}
	}
	return out
}

// clockLabel renders a 24h hour as the "hh:00 AM" label the portal displays.
func clockLabel(hour int) string {
	suffix := "AM"
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour == 12:
		suffix = "PM"
	case hour > 12:
		display = hour - 12
		suffix = "PM"
	}
	return fmt.Sprintf("%02d:00 %s", display, suffix)
}
