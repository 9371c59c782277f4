// Package catalog defines the closed option sets offered during onboarding:
// referral sources, age ranges, genders, learning goals, and topics.
// Each option carries static display metadata resolved through lookup tables.
package catalog

// ReferralSource identifies how the user heard about the app.
type ReferralSource string

const (
	ReferralFriend   ReferralSource = "friend"    // Word of mouth
	ReferralAppStore ReferralSource = "app_store" // Store browsing/search
	ReferralSocial   ReferralSource = "social"    // Social media
	ReferralSearch   ReferralSource = "search"    // Web search
	ReferralPodcast  ReferralSource = "podcast"   // Podcast or radio mention
	ReferralOther    ReferralSource = "other"     // Anything else
)

// AgeRange buckets the user's age. Stored as the bucket identifier, never a
// raw age.
type AgeRange string

const (
	AgeUnder18 AgeRange = "under_18"
	Age18to24  AgeRange = "18_24"
	Age25to34  AgeRange = "25_34"
	Age35to44  AgeRange = "35_44"
	Age45to54  AgeRange = "45_54"
	Age55Plus  AgeRange = "55_plus"
)

// Gender is self-reported and optional.
type Gender string

const (
	GenderFemale    Gender = "female"
	GenderMale      Gender = "male"
	GenderNonBinary Gender = "non_binary"
	GenderUnset     Gender = "prefer_not_to_say"
)

// Goal is a reason the user wants to grow their vocabulary.
type Goal string

const (
	GoalConversation Goal = "conversation" // Sound sharper in conversation
	GoalWriting      Goal = "writing"      // Improve writing
	GoalExams        Goal = "exams"        // Test prep (SAT/GRE/etc.)
	GoalWork         Goal = "work"         // Professional communication
	GoalReading      Goal = "reading"      // Read harder books comfortably
	GoalFun          Goal = "fun"          // Learning for its own sake
)

// Topic is a vocabulary domain the user wants words drawn from.
type Topic string

const (
	TopicSociety    Topic = "society"
	TopicBusiness   Topic = "business"
	TopicScience    Topic = "science"
	TopicArts       Topic = "arts"
	TopicEmotions   Topic = "emotions"
	TopicNature     Topic = "nature"
	TopicPhilosophy Topic = "philosophy"
	TopicHumor      Topic = "humor"
)

// Meta holds the static display metadata attached to an option.
type Meta struct {
	Title       string
	Description string
	// Popularity orders options in pickers; higher sorts first. Zero for
	// options where the source ordering is just declaration order.
	Popularity int
}

var referralMeta = map[ReferralSource]Meta{
	ReferralFriend:   {Title: "Friends or family", Description: "Someone recommended it", Popularity: 90},
	ReferralAppStore: {Title: "App store", Description: "Found it while browsing", Popularity: 70},
	ReferralSocial:   {Title: "Social media", Description: "TikTok, Instagram, X", Popularity: 85},
	ReferralSearch:   {Title: "Web search", Description: "Searched for a vocabulary app", Popularity: 60},
	ReferralPodcast:  {Title: "Podcast or radio", Description: "Heard it mentioned", Popularity: 40},
	ReferralOther:    {Title: "Other", Description: "Somewhere else", Popularity: 10},
}

var ageMeta = map[AgeRange]Meta{
	AgeUnder18: {Title: "Under 18"},
	Age18to24:  {Title: "18–24"},
	Age25to34:  {Title: "25–34"},
	Age35to44:  {Title: "35–44"},
	Age45to54:  {Title: "45–54"},
	Age55Plus:  {Title: "55+"},
}

var genderMeta = map[Gender]Meta{
	GenderFemale:    {Title: "Female"},
	GenderMale:      {Title: "Male"},
	GenderNonBinary: {Title: "Non-binary"},
	GenderUnset:     {Title: "Prefer not to say"},
}

var goalMeta = map[Goal]Meta{
	GoalConversation: {Title: "Everyday conversation", Description: "Find the right word when it matters", Popularity: 88},
	GoalWriting:      {Title: "Better writing", Description: "Emails, essays, anything with a cursor", Popularity: 80},
	GoalExams:        {Title: "Exam prep", Description: "SAT, GRE, IELTS and friends", Popularity: 75},
	GoalWork:         {Title: "Work and career", Description: "Present and persuade with precision", Popularity: 70},
	GoalReading:      {Title: "Reading", Description: "Stop reaching for the dictionary", Popularity: 65},
	GoalFun:          {Title: "Just for fun", Description: "Collect words like souvenirs", Popularity: 50},
}

var topicMeta = map[Topic]Meta{
	TopicSociety:    {Title: "Society & culture"},
	TopicBusiness:   {Title: "Business & economics"},
	TopicScience:    {Title: "Science & technology"},
	TopicArts:       {Title: "Arts & literature"},
	TopicEmotions:   {Title: "Emotions & relationships"},
	TopicNature:     {Title: "Nature & the outdoors"},
	TopicPhilosophy: {Title: "Philosophy & ideas"},
	TopicHumor:      {Title: "Humor & wordplay"},
}

// Display returns the metadata for a referral source.
func (r ReferralSource) Display() Meta { return referralMeta[r] }

// Display returns the metadata for an age range.
func (a AgeRange) Display() Meta { return ageMeta[a] }

// Display returns the metadata for a gender option.
func (g Gender) Display() Meta { return genderMeta[g] }

// Display returns the metadata for a goal.
func (g Goal) Display() Meta { return goalMeta[g] }

// Display returns the metadata for a topic.
func (t Topic) Display() Meta { return topicMeta[t] }

// ReferralSources lists the referral options in presentation order.
func ReferralSources() []ReferralSource {
	return []ReferralSource{
		ReferralFriend, ReferralSocial, ReferralAppStore,
		ReferralSearch, ReferralPodcast, ReferralOther,
	}
}

// AgeRanges lists the age buckets youngest to oldest.
func AgeRanges() []AgeRange {
	return []AgeRange{AgeUnder18, Age18to24, Age25to34, Age35to44, Age45to54, Age55Plus}
}

// Genders lists the gender options in presentation order.
func Genders() []Gender {
	return []Gender{GenderFemale, GenderMale, GenderNonBinary, GenderUnset}
}

// Goals lists the goal options in presentation order.
func Goals() []Goal {
	return []Goal{GoalConversation, GoalWriting, GoalExams, GoalWork, GoalReading, GoalFun}
}

// Topics lists the topic options in presentation order.
func Topics() []Topic {
	return []Topic{
		TopicSociety, TopicBusiness, TopicScience, TopicArts,
		TopicEmotions, TopicNature, TopicPhilosophy, TopicHumor,
	}
}

// ParseReferralSource maps a stored identifier back to its option.
func ParseReferralSource(s string) (ReferralSource, bool) {
	r := ReferralSource(s)
	_, ok := referralMeta[r]
	return r, ok
}

// ParseAgeRange maps a stored identifier back to its option.
func ParseAgeRange(s string) (AgeRange, bool) {
	a := AgeRange(s)
	_, ok := ageMeta[a]
	return a, ok
}

// ParseGender maps a stored identifier back to its option.
func ParseGender(s string) (Gender, bool) {
	g := Gender(s)
	_, ok := genderMeta[g]
	return g, ok
}

// ParseGoal maps a stored identifier back to its option.
func ParseGoal(s string) (Goal, bool) {
	g := Goal(s)
	_, ok := goalMeta[g]
	return g, ok
}

// ParseTopic maps a stored identifier back to its option.
func ParseTopic(s string) (Topic, bool) {
	t := Topic(s)
	_, ok := topicMeta[t]
	return t, ok
}
