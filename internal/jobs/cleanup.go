package jobs

import (
	"log"
	"time"

	"github.com/nairalink/nairalink-backend/internal/services"
)

// CleanupJob periodically deletes OTP records that expired long enough ago
// to be useless even for auditing. Running it redundantly is harmless: the
// delete is idempotent.
type CleanupJob struct {
	otp      *services.OTPService
	interval time.Duration
	stop     chan struct{}
}

// NewCleanupJob creates a cleanup job with the given run interval.
func NewCleanupJob(otp *services.OTPService, interval time.Duration) *CleanupJob {
	return &CleanupJob{
		otp:      otp,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the cleanup loop in the background.
func (j *CleanupJob) Start() {
	log.Printf("Starting OTP cleanup job (every %s)", j.interval)
	go j.run()
}

// Stop halts the cleanup loop.
func (j *CleanupJob) Stop() {
	log.Println("Stopping OTP cleanup job...")
	close(j.stop)
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.runOnce()
		case <-j.stop:
			return
		}
	}
}

func (j *CleanupJob) runOnce() {
	count, err := j.otp.Cleanup()
	if err != nil {
		log.Printf("OTP cleanup error: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Cleaned up %d expired OTPs", count)
	}
}
