package main

import (
	"context"
	"log"

	"coaching/internal/attendance"
	"coaching/internal/config"
	"coaching/internal/fee"
	"coaching/internal/paper"
	"coaching/internal/result"
	"coaching/internal/store"
	"coaching/internal/student"
)

func ptr[T any](v T) *T { return &v }

// Seed loads a small demo dataset so a fresh install has something to show.
// Safe to re-run: students/results/papers get new rows each run, attendance
// and fees upsert.
func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := store.NewDB(cfg.DatabaseURL, cfg.StartupTimeout)
	if err != nil {
		log.Fatalf("store connect failed: %v", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema init failed: %v", err)
	}

	students := student.NewRepository(db.Client)
	att := attendance.NewRepository(db.Client)
	fees := fee.NewService(fee.NewRepository(db.Client))
	results := result.NewRepository(db.Client)
	papers := paper.NewRepository(db.Client)

	ravi, err := students.Insert(ctx, student.Patch{
		Name:       ptr("Ravi Kumar"),
		Email:      ptr("ravi@example.com"),
		Phone:      ptr("9876543210"),
		Address:    ptr("12 MG Road"),
		EnrolledOn: ptr("2024-06-01"),
		Course:     ptr("Mathematics"),
	})
	if err != nil {
		log.Fatalf("seed student: %v", err)
	}
	meena, err := students.Insert(ctx, student.Patch{
		Name:   ptr("Meena Iyer"),
		Email:  ptr("meena@example.com"),
		Course: ptr("Physics"),
	})
	if err != nil {
		log.Fatalf("seed student: %v", err)
	}

	if _, err := att.Upsert(ctx, "2024-06-03", []attendance.Record{
		{StudentID: ravi.ID, Status: "present"},
		{StudentID: meena.ID, Status: "late"},
	}); err != nil {
		log.Fatalf("seed attendance: %v", err)
	}

	if _, err := fees.Pay(ctx, ravi.ID, 500); err != nil {
		log.Fatalf("seed fee: %v", err)
	}

	if _, err := results.Insert(ctx, result.Patch{
		Name:   ptr("Ravi Kumar"),
		Course: ptr("Mathematics"),
		Marks:  ptr(82.0),
		Grade:  ptr("A"),
	}); err != nil {
		log.Fatalf("seed result: %v", err)
	}

	if _, err := papers.Insert(ctx, paper.Patch{
		Subject:    ptr("Mathematics"),
		ExamDate:   ptr("2024-07-15"),
		ClassName:  ptr("Batch A"),
		Duration:   ptr("2h"),
		TotalMarks: ptr(100.0),
		Questions: ptr([]paper.Question{
			{Text: "State and prove the binomial theorem.", Marks: 10},
			{Text: "Solve the system 2x+y=5, x-y=1.", Marks: 5},
		}),
	}); err != nil {
		log.Fatalf("seed paper: %v", err)
	}

	log.Println("seed complete")
}
