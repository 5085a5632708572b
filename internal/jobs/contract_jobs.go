package jobs

import (
	"context"
	"time"

	"locnos-backend/internal/logger"
	"locnos-backend/internal/rental"
)

// MarkOverdueContracts flips active contracts past their end date to overdue.
func (jr *JobRunner) MarkOverdueContracts() {
	jr.runWithRecovery("MarkOverdueContracts", func() {
		ctx := context.Background()

		contracts, err := jr.store.ContractRepository.MarkOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to mark overdue contracts", "error", err)
			return
		}

		logger.Info("Marked contracts as overdue", "count", len(contracts))
		for _, c := range contracts {
			logger.Debug("Marked contract as overdue",
				"contract_id", c.ID,
				"number", c.Number,
				"person_id", c.PersonID,
				"end_date", c.Period.EndDate.Format("2006-01-02"))
		}
	})
}

// SendOverdueReminders emails every customer holding an overdue contract,
// quoting the late fee accrued so far.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()
		now := time.Now()

		contracts, err := jr.store.ContractRepository.ListOverdue(ctx)
		if err != nil {
			logger.Error("Failed to list overdue contracts", "error", err)
			return
		}

		sent := 0
		for _, c := range contracts {
			person, err := jr.store.PersonRepository.GetByID(ctx, c.PersonID)
			if err != nil {
				logger.Error("Failed to load customer for reminder",
					"contract", c.Number, "person_id", c.PersonID, "error", err)
				continue
			}
			if person.Email == "" {
				logger.Debug("Skipping reminder, customer has no email",
					"contract", c.Number, "person_id", c.PersonID)
				continue
			}

			lateFee := rental.LateFee(&c, now, jr.config.Rental.LateFeePerDayCents)
			if err := jr.services.Email.SendOverdueReminder(ctx, person.Email, person.Name, c.Number, c.Period.EndDate, lateFee); err != nil {
				logger.Error("Failed to send overdue reminder",
					"contract", c.Number, "email", person.Email, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Sent overdue reminders", "sent", sent, "overdue", len(contracts))
	})
}
