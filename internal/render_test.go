package internal

import (
	"strings"
	"testing"
)

func TestDashboardState_Render(t *testing.T) {
	d := NewDashboard()
	d.Reset(1, []Message{
		NewMessage("Lunch tomorrow?", "12:01", false),
		NewMessage("This message was deleted", "12:02", true),
	})
	d.ApplyReply(1, &ReplyAnalysis{Response: "They want lunch.", Suggestions: []string{"Sure, noon?"}}, false, false)
	d.ApplyStats(1, &StatsReport{
		ConversationDynamics: ConversationDynamics{EnergyBalance: "High", EngagementLevel: "Medium"},
		ConversationTopics:   ConversationTopics{Topics: []Topic{{Topic: "Food", Percentage: "70%"}}},
		ConversationTips:     ConversationTips{Tips: []string{"Propose a time"}},
	})

	tests := []struct {
		tab  Tab
		want []string
	}{
		{tab: TabChat, want: []string{"Lunch tomorrow?", "This message was deleted", "[O] 12:01"}},
		{tab: TabAssistant, want: []string{"lunch", "Sure, noon?"}},
		{tab: TabStats, want: []string{"Energy balance", "High", "Food", "70%"}},
		{tab: TabInsights, want: []string{"Propose a time"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tab), func(t *testing.T) {
			if err := d.SelectTab(tt.tab); err != nil {
				t.Fatal(err)
			}
			out := d.Snapshot().Render(80)
			for _, label := range []string{"Chat", "Assistant", "Stats", "Insights"} {
				if !strings.Contains(out, label) {
					t.Errorf("Render() missing tab label %q", label)
				}
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("Render() missing %q in:\n%s", want, out)
				}
			}
		})
	}
}

func TestDashboardState_RenderEmpty(t *testing.T) {
	d := NewDashboard()
	if out := d.Snapshot().Render(20); !strings.Contains(out, "No messages found") {
		t.Errorf("empty chat tab = %q", out)
	}

	_ = d.SelectTab(TabStats)
	if out := d.Snapshot().Render(80); !strings.Contains(out, "Loading statistics...") {
		t.Errorf("unloaded stats tab = %q", out)
	}
}
