package mission

import (
	"strings"
	"testing"
	"time"

	"github.com/example/dutybot/internal/core/effects"
)

var testSummary = Summary{MissionID: "7", LeaderID: "100", Category: "Rescue", Description: "Cat in tree"}

func TestGenerateCreatedPlan(t *testing.T) {
	if plan := GenerateCreatedPlan(CreatedPlanInput{Mission: testSummary}); len(plan) != 0 {
		t.Errorf("plan without pending channel = %v, want empty", plan)
	}

	plan := GenerateCreatedPlan(CreatedPlanInput{Mission: testSummary, PendingChannelID: "555"})
	if len(plan) != 1 {
		t.Fatalf("len(plan) = %d, want 1", len(plan))
	}
	post, ok := plan[0].(effects.PostEffect)
	if !ok {
		t.Fatalf("plan[0] = %T, want PostEffect", plan[0])
	}
	if post.ChannelID != "555" || post.Purpose != "pending_missions" {
		t.Errorf("post = %+v", post)
	}
	if !strings.Contains(post.Content, "New Mission #7") {
		t.Errorf("content = %q", post.Content)
	}
}

func TestGenerateStartedPlan_NamesLeader(t *testing.T) {
	plan := GenerateStartedPlan(StartedPlanInput{Mission: testSummary, MissionsChannelID: "1"})
	post := plan[0].(effects.PostEffect)
	if !strings.Contains(post.Content, effects.Mention("100")) {
		t.Errorf("content %q does not mention the leader", post.Content)
	}

	missing := GenerateStartedPlan(StartedPlanInput{Mission: testSummary})
	if _, ok := missing[0].(effects.LogEffect); !ok {
		t.Errorf("missing channel plan = %T, want LogEffect", missing[0])
	}
}

func TestGenerateSupportPlan_SkipsRequester(t *testing.T) {
	plan := GenerateSupportPlan(testSummary, "100", []string{"100", "200", "300"})
	if len(plan) != 2 {
		t.Fatalf("len(plan) = %d, want 2", len(plan))
	}
	for _, e := range plan {
		n := e.(effects.NotifyEffect)
		if n.UserID == "100" {
			t.Error("requester was notified")
		}
	}
}

func TestGenerateEndInitiatedPlan(t *testing.T) {
	plan := GenerateEndInitiatedPlan(InitiatedPlanInput{
		MissionID:            "7",
		InitiatorID:          "100",
		ScreenshotsChannelID: "9",
		Window:               EndConfirmWindow,
	})
	post := plan[0].(effects.PostEffect)
	if post.Purpose != "screenshots" {
		t.Errorf("purpose = %q", post.Purpose)
	}
	if !strings.Contains(post.Content, "/confend 7") || !strings.Contains(post.Content, "5 minutes") {
		t.Errorf("content = %q", post.Content)
	}

	abort := GenerateAbortInitiatedPlan(InitiatedPlanInput{MissionID: "7", InitiatorID: "100", ScreenshotsChannelID: "9", Window: AbortConfirmWindow})
	if c := abort[0].(effects.PostEffect).Content; !strings.Contains(c, "/confabort 7") || !strings.Contains(c, "1 minute.") {
		t.Errorf("abort content = %q", c)
	}
}

func TestGenerateCompletedPlan(t *testing.T) {
	plan := GenerateCompletedPlan(OutcomePlanInput{
		Mission:    testSummary,
		Duration:   90*time.Minute + 5*time.Second,
		Reason:     "done",
		Screenshot: "https://img.example/1.png",
		ChannelID:  "1",
	})
	post := plan[0].(effects.PostEffect)
	for _, want := range []string{"Mission 7 Completed", "Duration: 1:30:05", "Category: Rescue", "Reason: done", "Screenshot: https://img.example/1.png"} {
		if !strings.Contains(post.Content, want) {
			t.Errorf("content missing %q:\n%s", want, post.Content)
		}
	}
}

func TestGenerateAbortedPlan(t *testing.T) {
	plan := GenerateAbortedPlan(OutcomePlanInput{Mission: testSummary, Reason: "unsafe", ChannelID: "logs"})
	post := plan[0].(effects.PostEffect)
	if post.Purpose != "mission_logs" || post.ChannelID != "logs" {
		t.Errorf("post = %+v", post)
	}
	if strings.Contains(post.Content, "Screenshot") {
		t.Error("content mentions a screenshot that was not given")
	}
}

func TestGenerateTimeoutPlan(t *testing.T) {
	plan := GenerateTimeoutPlan("7", "100", ActionInitiateAbort)
	n := plan[0].(effects.NotifyEffect)
	if n.UserID != "100" || !strings.Contains(n.Message, "abort confirmation for mission #7 timed out") {
		t.Errorf("notify = %+v", n)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(-time.Second); got != "0:00:00" {
		t.Errorf("FormatDuration(-1s) = %q", got)
	}
	if got := FormatDuration(25*time.Hour + 61*time.Second); got != "25:01:01" {
		t.Errorf("FormatDuration() = %q", got)
	}
}
