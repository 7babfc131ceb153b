package response_engine

import "regexp"

// Intent is the coarse topic a chat message is routed to when no medical pattern matches.
type Intent string

const (
	IntentGreeting       Intent = "greeting"
	IntentHowAreYou      Intent = "how_are_you"
	IntentSadOrDepressed Intent = "sad_or_depressed"
	IntentAnxious        Intent = "anxious"
	IntentHopeless       Intent = "hopeless"
	IntentSleep          Intent = "sleep"
	IntentSocial         Intent = "social"
	IntentWorkSchool     Intent = "work_school"
	IntentRelationships  Intent = "relationships"
	IntentTherapy        Intent = "therapy"
	IntentProgress       Intent = "progress"
	IntentCBTThoughts    Intent = "cbt_thoughts"
	IntentGratitude      Intent = "gratitude"
	IntentBreathing      Intent = "breathing"
	IntentWhoAreYou      Intent = "who_are_you"
	IntentCrisis         Intent = "crisis"
	IntentMedical        Intent = "medical"
	IntentDefault        Intent = "default"
)

// MedicalCategory is the urgency bucket of a message describing physical symptoms.
type MedicalCategory string

const (
	MedicalNone           MedicalCategory = ""
	MedicalEmergency      MedicalCategory = "emergency"
	MedicalConsultDoctor  MedicalCategory = "consult_doctor"
	MedicalSelfCare       MedicalCategory = "self_care"
	MedicalGeneralSymptom MedicalCategory = "general_symptom"
)

// Sentiment is the polarity label attached to every reply.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentCrisis   Sentiment = "crisis"
)

// crisisPatterns are checked before anything else. Any hit short-circuits classification.
var crisisPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(kill|suicide|suicidal|end my life|want to die|hurt myself|self.?harm|overdose|not worth living)\b`),
	regexp.MustCompile(`(?i)\b(no reason to live|better off dead|give up on life|can't go on)\b`),
}

type medicalRule struct {
	category MedicalCategory
	pattern  *regexp.Regexp
}

// medicalRules is evaluated top to bottom; the first match wins.
var medicalRules = []medicalRule{
	{MedicalEmergency, regexp.MustCompile(`(?i)\b(severe pain|unbearable pain|chest pain|heart attack|can't breathe|breathing difficulty|coughing blood|stroke|bleeding profusely|seizure|medical emergency|passing out|loss of consciousness|paralysis|sudden weakness|choking|severe burn|poisoning|anaphylaxis|unable to speak)\b`)},
	{MedicalConsultDoctor, regexp.MustCompile(`(?i)\b(fever|persistent cough|rash|back pain|stomach pain|joint pain|illness|dizzy|dizziness|nausea|vomiting|diarrhea|chronic pain|migraine|infection|sick|physically hurting|swelling|lump|unexplained weight loss|palpitations|high blood pressure|blurred vision|frequent urination|blood in stool|chronic fatigue)\b`)},
	{MedicalSelfCare, regexp.MustCompile(`(?i)\b(mild headache|headache|sniffles|sneeze|mild cold|sore throat|minor cut|scrape|bruise|muscle soreness|runny nose|fatigue|minor pain|itchy|mild allergy|stiffness|cramps|mild heartburn|chills|stuffy nose)\b`)},
	{MedicalGeneralSymptom, regexp.MustCompile(`(?i)\b(symptoms?|pain|ache|hurt|hurting|swollen|discomfort|feel unwell|feeling sick|body ache|bodyaches)\b`)},
}

type intentRule struct {
	intent  Intent
	pattern *regexp.Regexp
}

// intentRules is ordered. A message touching several topics ("can't sleep, so anxious") lands on
// whichever rule is declared first, so reordering this table changes observable replies.
var intentRules = []intentRule{
	{IntentGreeting, regexp.MustCompile(`(?i)\b(hello|hi|hey|good morning|good evening|good afternoon|greetings)\b`)},
	{IntentHowAreYou, regexp.MustCompile(`(?i)\b(how are you|what's up|whats up|how do you do)\b`)},
	{IntentSadOrDepressed, regexp.MustCompile(`(?i)\b(sad|depressed|depression|down|low|unhappy|miserable|crying|cried|tears)\b`)},
	{IntentAnxious, regexp.MustCompile(`(?i)\b(anxious|anxiety|panic|worried|worry|nervous|stress|stressed|overwhelm)\b`)},
	{IntentHopeless, regexp.MustCompile(`(?i)\b(hopeless|no hope|pointless|meaningless|futile|give up|giving up|can't do this)\b`)},
	{IntentSleep, regexp.MustCompile(`(?i)\b(sleep|insomnia|can't sleep|tired|fatigue|exhausted|no energy|woke up)\b`)},
	{IntentSocial, regexp.MustCompile(`(?i)\b(alone|lonely|isolated|no friends|no one cares|abandoned|rejected|left out)\b`)},
	{IntentWorkSchool, regexp.MustCompile(`(?i)\b(work|job|school|college|university|boss|coworker|grades|failing|fired)\b`)},
	{IntentRelationships, regexp.MustCompile(`(?i)\b(relationship|partner|boyfriend|girlfriend|husband|wife|breakup|divorce|family|parents)\b`)},
	{IntentTherapy, regexp.MustCompile(`(?i)\b(therapy|therapist|counselor|psychiatrist|medication|medicine|treatment|help|doctor|pill)\b`)},
	{IntentProgress, regexp.MustCompile(`(?i)\b(better|improving|progress|good day|doing well|feeling good|managed|accomplished|healed)\b`)},
	{IntentCBTThoughts, regexp.MustCompile(`(?i)\b(thoughts|thinking|mind|believe|belief|thought|think|feel like)\b`)},
	{IntentGratitude, regexp.MustCompile(`(?i)\b(grateful|gratitude|thankful|appreciate|blessed)\b`)},
	{IntentBreathing, regexp.MustCompile(`(?i)\b(breathe|breathing|breath|calm down|relax|panic attack)\b`)},
	{IntentWhoAreYou, regexp.MustCompile(`(?i)\b(who are you|what are you|your name|introduce yourself)\b`)},
}

// Sentiment word lists are matched by plain substring containment, so "unhappy" counts as "happy".
var (
	positiveWords = []string{"happy", "better", "great", "good", "hopeful", "excited", "grateful", "proud", "calm", "peaceful", "motivated", "progress", "healthy", "healing"}
	negativeWords = []string{"sad", "depressed", "hopeless", "worthless", "tired", "exhausted", "anxious", "worried", "alone", "isolated", "failure", "numb", "empty", "dark", "pain", "sick", "hurt"}
)

// DetectCrisis reports whether the message carries self-harm or suicide language.
func DetectCrisis(message string) bool {
	for _, p := range crisisPatterns {
		if p.MatchString(message) {
			return true
		}
	}
	return false
}

// ClassifyMedical returns the highest-priority medical category matched, or MedicalNone.
func ClassifyMedical(message string) MedicalCategory {
	for _, rule := range medicalRules {
		if rule.pattern.MatchString(message) {
			return rule.category
		}
	}
	return MedicalNone
}

// ClassifyIntent returns the first intent whose pattern matches, or IntentDefault.
func ClassifyIntent(message string) Intent {
	for _, rule := range intentRules {
		if rule.pattern.MatchString(message) {
			return rule.intent
		}
	}
	return IntentDefault
}
