// internals/features/exams/schedules/scheduler/reconciler.go
package scheduler

import (
	"context"
	"log"
	"time"

	scheduleModel "labku_backend/internals/features/exams/schedules/model"
)

/* =========================================================
   Reconciliation loop — sweep periodik (default tiap 60 detik)
   yang memajukan sesi-sesi yang sudah due. Tiap tick mengevaluasi
   ulang wall-clock sekarang; tick yang telat/kelewat tidak perlu
   "catch-up" khusus, scan berikutnya menangkap kondisi terkini.
========================================================= */

// Scanner: query scan ber-filter status + jendela waktu.
type Scanner interface {
	DueForExamMode(ctx context.Context, now time.Time) ([]scheduleModel.EventScheduleModel, error)
	DueForAutoStart(ctx context.Context, now time.Time) ([]scheduleModel.EventScheduleModel, error)
	DueForAutoEnd(ctx context.Context, now time.Time) ([]scheduleModel.EventScheduleModel, error)
}

// Machine: transisi yang dipicu sweep.
type Machine interface {
	ActivateExamMode(ctx context.Context, s *scheduleModel.EventScheduleModel, now time.Time) error
	AutoStart(ctx context.Context, s *scheduleModel.EventScheduleModel, now time.Time) error
	AutoEnd(ctx context.Context, s *scheduleModel.EventScheduleModel, now time.Time) error
}

type Reconciler struct {
	Scan     Scanner
	Machine  Machine
	Interval time.Duration

	// now injectable supaya tick bisa diuji dengan jam beku
	now  func() time.Time
	stop chan struct{}
	done chan struct{}
}

func NewReconciler(scan Scanner, machine Machine, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Reconciler{
		Scan:     scan,
		Machine:  machine,
		Interval: interval,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start menjalankan loop di goroutine sendiri. Loop hidup sampai Stop.
func (r *Reconciler) Start() {
	log.Printf("[RECONCILER] start, interval %s", r.Interval)
	go r.loop()
}

// Stop menghentikan loop dan menunggu tick yang sedang jalan selesai.
func (r *Reconciler) Stop() {
	close(r.stop)
	<-r.done
	log.Println("[RECONCILER] stopped")
}

func (r *Reconciler) loop() {
	defer close(r.done)

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	// tick pertama langsung, jangan tunggu satu interval penuh
	r.runOnce(context.Background())

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.runOnce(context.Background())
		}
	}
}

// runOnce: tiga scan berurutan. Idempoten — re-run di data yang sama
// menghasilkan nol transisi tambahan karena filter status ada di query
// scan dan prasyarat dicek ulang oleh update kondisional. Kegagalan
// satu sesi di-log dan tidak menghentikan sesi lain.
func (r *Reconciler) runOnce(ctx context.Context) {
	now := r.now()

	// 1) aktifkan exam mode untuk sesi ujian yang jendelanya terbuka
	if rows, err := r.Scan.DueForExamMode(ctx, now); err != nil {
		log.Printf("[RECONCILER ERROR] scan exam mode: %v", err)
	} else {
		for i := range rows {
			if err := r.Machine.ActivateExamMode(ctx, &rows[i], now); err != nil {
				log.Printf("[RECONCILER ERROR] activate %s: %v", rows[i].EventScheduleID, err)
			}
		}
	}

	// 2) auto-start sesi yang jam mulainya sudah tiba
	if rows, err := r.Scan.DueForAutoStart(ctx, now); err != nil {
		log.Printf("[RECONCILER ERROR] scan auto-start: %v", err)
	} else {
		for i := range rows {
			if err := r.Machine.AutoStart(ctx, &rows[i], now); err != nil {
				log.Printf("[RECONCILER ERROR] start %s: %v", rows[i].EventScheduleID, err)
			}
		}
	}

	// 3) auto-end sesi yang durasinya habis
	if rows, err := r.Scan.DueForAutoEnd(ctx, now); err != nil {
		log.Printf("[RECONCILER ERROR] scan auto-end: %v", err)
	} else {
		for i := range rows {
			if err := r.Machine.AutoEnd(ctx, &rows[i], now); err != nil {
				log.Printf("[RECONCILER ERROR] end %s: %v", rows[i].EventScheduleID, err)
			}
		}
	}
}
