package profile

// Storage keys. They match the names the web client has always used in
// localStorage so an exported browser profile can be imported as-is.
const (
	KeyDisplayName  = "vritti_userName"
	KeyMood         = "vritti_mood"
	KeyStreak       = "vritti_streak"
	KeyStreakDay    = "vritti_streak_last_day"
	KeyLastActivity = "vritti_last_activity"
	KeySleepHours   = "vritti_sleep_hours"
	KeyJournal      = "vritti_latestJournal"
)

const dayLayout = "2006-01-02"

func moodOnKey(day string) string {
	return "vritti_mood_" + day
}

func scoreKey(instrument string) string       { return "vritti_" + instrument + "_score" }
func severityKey(instrument string) string    { return "vritti_" + instrument + "_severity" }
func answersKey(instrument string) string     { return "vritti_" + instrument + "_answers" }
func completedAtKey(instrument string) string { return "vritti_" + instrument + "_completed_at" }
func completedKey(instrument string) string   { return "vritti_" + instrument + "_completed" }
