package orchestrators

import (
	"context"
	"errors"
	"testing"

	"diylab/internal/adapters/backend"
	"diylab/internal/domain/application"
	"diylab/internal/domain/submission"
)

// mockApplicationBackend records the routed submission kind.
type mockApplicationBackend struct {
	multipartCalls int
	trainingCalls  int
	lastResume     *backend.FilePart
}

func (m *mockApplicationBackend) SubmitApplication(_ context.Context, app application.Application, resume *backend.FilePart) error {
	m.multipartCalls++
	m.lastResume = resume
	return nil
}

func (m *mockApplicationBackend) SubmitTeacherTraining(_ context.Context, app application.Application) error {
	m.trainingCalls++
	return nil
}

func validApplicationFields() map[string]string {
	return map[string]string{
		"full_name":  "Hemi Walker",
		"email":      "hemi@diylab.example",
		"phone":      "021234567",
		"motivation": "I want to learn CNC machining.",
	}
}

func TestExecuteSubmitApplication_InternshipRequiresResume(t *testing.T) {
	be := &mockApplicationBackend{}
	m := submission.NewMachine("application")
	input := SubmitApplicationInput{
		Machine: m,
		Kind:    application.KindInternship,
		Fields:  validApplicationFields(),
		Resume:  nil,
	}

	err := ExecuteSubmitApplication(context.Background(), input, SubmitApplicationDeps{Backend: be})
	if !errors.Is(err, application.ErrMissingResume) {
		t.Fatalf("err = %v, want ErrMissingResume", err)
	}
	if be.multipartCalls != 0 {
		t.Error("missing resume must not reach the network")
	}
	if m.State() != submission.StateIdle {
		t.Errorf("state = %s, want idle", m.State())
	}
}

func TestExecuteSubmitApplication_InternshipWithResume(t *testing.T) {
	be := &mockApplicationBackend{}
	m := submission.NewMachine("application")
	resume := &backend.FilePart{Field: "resume", Filename: "cv.pdf", Data: []byte("%PDF-1.4")}
	input := SubmitApplicationInput{
		Machine: m,
		Kind:    application.KindInternship,
		Fields:  validApplicationFields(),
		Resume:  resume,
	}

	if err := ExecuteSubmitApplication(context.Background(), input, SubmitApplicationDeps{Backend: be}); err != nil {
		t.Fatalf("ExecuteSubmitApplication: %v", err)
	}
	if be.multipartCalls != 1 {
		t.Errorf("multipartCalls = %d, want 1", be.multipartCalls)
	}
	if be.lastResume == nil || be.lastResume.Filename != "cv.pdf" {
		t.Error("resume attachment not forwarded")
	}
	if m.State() != submission.StateSucceeded {
		t.Errorf("state = %s, want succeeded", m.State())
	}
}

func TestExecuteSubmitApplication_TeacherTrainingSkipsResume(t *testing.T) {
	be := &mockApplicationBackend{}
	m := submission.NewMachine("application")
	input := SubmitApplicationInput{
		Machine: m,
		Kind:    application.KindTeacherTraining,
		Fields:  validApplicationFields(),
	}

	if err := ExecuteSubmitApplication(context.Background(), input, SubmitApplicationDeps{Backend: be}); err != nil {
		t.Fatalf("ExecuteSubmitApplication: %v", err)
	}
	if be.trainingCalls != 1 {
		t.Errorf("trainingCalls = %d, want 1", be.trainingCalls)
	}
	if be.multipartCalls != 0 {
		t.Errorf("multipartCalls = %d, want 0 (routed to the training endpoint)", be.multipartCalls)
	}
}

func TestExecuteSubmitApplication_UnknownKind(t *testing.T) {
	be := &mockApplicationBackend{}
	m := submission.NewMachine("application")
	input := SubmitApplicationInput{Machine: m, Kind: "volunteer", Fields: validApplicationFields()}

	err := ExecuteSubmitApplication(context.Background(), input, SubmitApplicationDeps{Backend: be})
	if !errors.Is(err, application.ErrUnknownKind) {
		t.Fatalf("err = %v, want ErrUnknownKind", err)
	}
}
