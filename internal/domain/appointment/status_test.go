package appointment

import (
	"testing"

	"github.com/medibook/clinic-scheduler/internal/httperr"
	"github.com/medibook/clinic-scheduler/internal/models"
)

func TestCheckTransition(t *testing.T) {
	cases := []struct {
		name    string
		role    string
		current Status
		target  Status
		want    httperr.Kind
	}{
		{"doctor accepts pending", models.RoleDoctor, StatusPending, StatusAccepted, ""},
		{"doctor rejects pending", models.RoleDoctor, StatusPending, StatusRejected, ""},
		{"doctor cancels", models.RoleDoctor, StatusPending, StatusCancelled, httperr.KindForbidden},
		{"doctor accepts accepted", models.RoleDoctor, StatusAccepted, StatusAccepted, httperr.KindInvalidState},
		{"doctor rejects accepted", models.RoleDoctor, StatusAccepted, StatusRejected, httperr.KindInvalidState},
		{"doctor rejects cancelled", models.RoleDoctor, StatusCancelled, StatusRejected, httperr.KindInvalidState},

		{"patient cancels pending", models.RolePatient, StatusPending, StatusCancelled, ""},
		{"patient accepts", models.RolePatient, StatusPending, StatusAccepted, httperr.KindForbidden},
		{"patient cancels accepted", models.RolePatient, StatusAccepted, StatusCancelled, httperr.KindInvalidState},
		{"patient cancels rejected", models.RolePatient, StatusRejected, StatusCancelled, httperr.KindInvalidState},

		{"admin overrides accepted to cancelled", models.RoleAdmin, StatusAccepted, StatusCancelled, ""},
		{"admin overrides rejected to pending", models.RoleAdmin, StatusRejected, StatusPending, ""},
		{"admin with bogus status", models.RoleAdmin, StatusPending, Status("LOST"), httperr.KindInvalidArgument},

		{"unknown role", "AUDITOR", StatusPending, StatusAccepted, httperr.KindForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckTransition(tc.role, tc.current, tc.target)

			if tc.want == "" {
				if err != nil {
					t.Fatalf("expected transition to be allowed, got %v", err)
				}
				return
			}

			if !httperr.IsKind(err, tc.want) {
				t.Fatalf("expected %s fault, got %v", tc.want, err)
			}
		})
	}
}

func TestTransitionMutatesOnlyOnSuccess(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusPending)}

	if err := Transition(ap, models.RolePatient, StatusAccepted); err == nil {
		t.Fatal("expected forbidden transition")
	}
	if ap.Status != string(StatusPending) {
		t.Fatalf("status mutated on failed transition: %s", ap.Status)
	}

	if err := Transition(ap, models.RoleDoctor, StatusAccepted); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if ap.Status != string(StatusAccepted) {
		t.Fatalf("expected ACCEPTED, got %s", ap.Status)
	}
}
