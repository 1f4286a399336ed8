package eventlog

import (
	"strings"
	"testing"
	"time"
)

const simpleCSV = `case_id,activity,timestamp
C1,A,2024-01-01 09:00:00
C1,B,2024-01-01 09:10:00
C1,C,2024-01-01 09:20:00
C2,A,2024-01-01 10:00:00
C2,D,2024-01-01 10:15:00
C3,A,2024-01-01 11:00:00
C3,B,2024-01-01 11:05:00
C3,C,2024-01-01 11:20:00
`

func TestParseCSVSimple(t *testing.T) {
	config := DefaultCSVConfig()
	log, err := ParseCSVReader(strings.NewReader(simpleCSV), config)
	if err != nil {
		t.Fatalf("ParseCSVReader failed: %v", err)
	}

	if log.NumCases() != 3 {
		t.Errorf("Expected 3 cases, got %d", log.NumCases())
	}
	if log.NumEvents() != 8 {
		t.Errorf("Expected 8 events, got %d", log.NumEvents())
	}

	activities := log.GetActivities()
	expected := []string{"A", "B", "C", "D"}
	if len(activities) != len(expected) {
		t.Errorf("Expected %d activities, got %d", len(expected), len(activities))
	}
	for i, act := range expected {
		if activities[i] != act {
			t.Errorf("Expected activity %d to be %s, got %s", i, act, activities[i])
		}
	}

	trace, exists := log.Cases["C1"]
	if !exists {
		t.Fatal("Case C1 not found")
	}
	if len(trace.Events) != 3 {
		t.Errorf("Expected 3 events for C1, got %d", len(trace.Events))
	}

	expectedSeq := []string{"A", "B", "C"}
	for i, event := range trace.Events {
		if event.Activity != expectedSeq[i] {
			t.Errorf("Event %d: expected %s, got %s", i, expectedSeq[i], event.Activity)
		}
	}

	for i := 1; i < len(trace.Events); i++ {
		if trace.Events[i].Timestamp.Before(trace.Events[i-1].Timestamp) {
			t.Error("Events are not sorted by timestamp")
		}
	}
}

const hospitalCSV = `case_id,activity,timestamp,resource,cost
P001,Registration,2024-02-01 08:00:00,Nurse_A,50
P001,Triage,2024-02-01 08:20:00,Nurse_B,30
P001,Doctor_Consultation,2024-02-01 09:00:00,Dr_Smith,200
P001,Lab_Test,2024-02-01 09:45:00,Lab_Tech,80
P001,Results_Review,2024-02-01 11:00:00,Dr_Smith,0
P001,Discharge,2024-02-01 11:30:00,Nurse_A,0
P002,Registration,2024-02-01 08:05:00,Nurse_A,50
P002,Triage,2024-02-01 08:25:00,Nurse_B,30
P002,Doctor_Consultation,2024-02-01 09:10:00,Dr_Jones,200
P002,Discharge,2024-02-01 10:00:00,Nurse_A,0
P003,Registration,2024-02-01 08:10:00,Nurse_A,50
P003,Triage,2024-02-01 08:30:00,Nurse_B,30
P003,Doctor_Consultation,2024-02-01 09:20:00,Dr_Smith,200
P003,Lab_Test,2024-02-01 10:00:00,Lab_Tech,80
P003,Results_Review,2024-02-01 11:15:00,Dr_Smith,0
P003,Discharge,2024-02-01 11:45:00,Nurse_A,0
P004,Registration,2024-02-01 08:15:00,Nurse_A,50
P004,Triage,2024-02-01 08:35:00,Nurse_B,30
P004,Doctor_Consultation,2024-02-01 09:30:00,Dr_Jones,200
P004,Lab_Test,2024-02-01 10:15:00,Lab_Tech,80
P004,Results_Review,2024-02-01 11:30:00,Dr_Jones,0
P004,Discharge,2024-02-01 12:00:00,Nurse_A,0
P004,Registration,2024-02-01 08:16:00,Nurse_A,50
P004,Triage,2024-02-01 08:36:00,Nurse_B,30
P004,Doctor_Consultation,2024-02-01 09:31:00,Dr_Jones,200
P004,Discharge,2024-02-01 12:01:00,Nurse_A,0
`

func TestParseCSVHospital(t *testing.T) {
	config := DefaultCSVConfig()
	log, err := ParseCSVReader(strings.NewReader(hospitalCSV), config)
	if err != nil {
		t.Fatalf("ParseCSVReader failed: %v", err)
	}

	if log.NumCases() != 4 {
		t.Errorf("Expected 4 cases, got %d", log.NumCases())
	}

	expectedEvents := 26
	if log.NumEvents() != expectedEvents {
		t.Errorf("Expected %d events, got %d", expectedEvents, log.NumEvents())
	}

	resources := log.GetResources()
	if len(resources) == 0 {
		t.Error("No resources found")
	}

	trace, exists := log.Cases["P001"]
	if !exists {
		t.Fatal("Case P001 not found")
	}

	if len(trace.Events) != 6 {
		t.Errorf("Expected 6 events for P001, got %d", len(trace.Events))
	}

	firstEvent := trace.Events[0]
	if firstEvent.Activity != "Registration" {
		t.Errorf("First activity should be Registration, got %s", firstEvent.Activity)
	}
	if firstEvent.Resource != "Nurse_A" {
		t.Errorf("First event resource should be Nurse_A, got %s", firstEvent.Resource)
	}

	if cost, ok := firstEvent.Attributes["cost"].(float64); !ok || cost != 50 {
		t.Errorf("Expected cost=50, got %v", firstEvent.Attributes["cost"])
	}

	duration := trace.Duration()
	expectedDuration := 3*time.Hour + 30*time.Minute
	if duration != expectedDuration {
		t.Errorf("Expected duration %v, got %v", expectedDuration, duration)
	}
}

func TestSummarize(t *testing.T) {
	config := DefaultCSVConfig()
	log, err := ParseCSVReader(strings.NewReader(hospitalCSV), config)
	if err != nil {
		t.Fatalf("ParseCSVReader failed: %v", err)
	}

	summary := log.Summarize()

	if summary.NumCases != 4 {
		t.Errorf("Expected 4 cases in summary, got %d", summary.NumCases)
	}
	if summary.NumActivities == 0 {
		t.Error("Expected non-zero activities in summary")
	}
	if summary.NumResources == 0 {
		t.Error("Expected non-zero resources in summary")
	}
	if summary.AvgCaseLength == 0 {
		t.Error("Expected non-zero average case length")
	}
}

func TestGetActivityVariant(t *testing.T) {
	config := DefaultCSVConfig()
	log, err := ParseCSVReader(strings.NewReader(simpleCSV), config)
	if err != nil {
		t.Fatalf("ParseCSVReader failed: %v", err)
	}

	trace := log.Cases["C1"]
	variant := trace.GetActivityVariant()

	expected := []string{"A", "B", "C"}
	if len(variant) != len(expected) {
		t.Errorf("Expected variant length %d, got %d", len(expected), len(variant))
	}
	for i, act := range expected {
		if variant[i] != act {
			t.Errorf("Expected variant[%d]=%s, got %s", i, act, variant[i])
		}
	}
}

func TestParseCSVBlankCaseIDGetsSyntheticID(t *testing.T) {
	data := `case_id,activity,timestamp
,A,2024-01-01 09:00:00
,B,2024-01-01 09:10:00
`
	config := DefaultCSVConfig()
	log, err := ParseCSVReader(strings.NewReader(data), config)
	if err != nil {
		t.Fatalf("ParseCSVReader failed: %v", err)
	}
	// Each blank-case-ID row becomes its own synthetic case rather than
	// merging, since no correlating key is present.
	if log.NumCases() != 2 {
		t.Errorf("Expected 2 synthetic cases, got %d", log.NumCases())
	}
	if log.NumEvents() != 2 {
		t.Errorf("Expected 2 events, got %d", log.NumEvents())
	}
}

func TestParseCSVDropsIncompleteLifecycle(t *testing.T) {
	data := `case_id,activity,timestamp,lifecycle
C1,A,2024-01-01 09:00:00,start
C1,A,2024-01-01 09:05:00,complete
C1,B,2024-01-01 09:10:00,complete
`
	config := DefaultCSVConfig()
	log, err := ParseCSVReader(strings.NewReader(data), config)
	if err != nil {
		t.Fatalf("ParseCSVReader failed: %v", err)
	}
	trace := log.Cases["C1"]
	if len(trace.Events) != 2 {
		t.Fatalf("Expected 2 completed events, got %d", len(trace.Events))
	}
	if trace.Events[0].Activity != "A" || trace.Events[1].Activity != "B" {
		t.Errorf("Unexpected activity sequence: %v", trace.GetActivityVariant())
	}
}
