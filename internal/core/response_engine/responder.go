package response_engine

import (
	"math/rand/v2"
	"strings"
)

// UserContext is what the caller knows about the person chatting.
type UserContext struct {
	Name string
}

// ResponsePayload is the reply handed back to the chat handler.
type ResponsePayload struct {
	Response   string    `json:"response"`
	Sentiment  Sentiment `json:"sentiment"`
	CrisisFlag bool      `json:"crisisFlag"`
}

// ClassificationResult describes how a single message was routed.
type ClassificationResult struct {
	Intent          Intent          `json:"intent"`
	Sentiment       Sentiment       `json:"sentiment"`
	MedicalCategory MedicalCategory `json:"medicalCategory,omitempty"`
	IsCrisis        bool            `json:"isCrisis"`
}

// Picker returns an index in [0, n). It selects one reply out of a template pool.
type Picker func(n int) int

// Option customizes a Responder.
type Option func(*Responder)

// WithPicker replaces the uniform random template selection.
func WithPicker(p Picker) Option {
	return func(r *Responder) {
		if p != nil {
			r.pick = p
		}
	}
}

// Responder turns a raw chat message into a templated reply.
// It holds no mutable state and is safe for concurrent use.
type Responder struct {
	pick    Picker
	crisis  string
	medical map[MedicalCategory]string
}

// NewResponder builds a Responder whose crisis and emergency replies name the given contacts.
func NewResponder(contacts CrisisContacts, opts ...Option) *Responder {
	r := &Responder{
		pick:    rand.IntN,
		crisis:  crisisTemplate(contacts),
		medical: medicalTemplates(contacts),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Classify routes the message without rendering a reply.
func (r *Responder) Classify(message string) ClassificationResult {
	if DetectCrisis(message) {
		return ClassificationResult{Intent: IntentCrisis, Sentiment: SentimentCrisis, IsCrisis: true}
	}

	if cat := ClassifyMedical(message); cat != MedicalNone {
		res := ClassificationResult{Intent: IntentMedical, MedicalCategory: cat, Sentiment: AnalyzeSentiment(message)}
		if cat == MedicalEmergency {
			res.Sentiment = SentimentCrisis
			res.IsCrisis = true
		}
		return res
	}

	return ClassificationResult{Intent: ClassifyIntent(message), Sentiment: AnalyzeSentiment(message)}
}

// Respond classifies the message and renders the matching reply.
func (r *Responder) Respond(message string, uc UserContext) ResponsePayload {
	res := r.Classify(message)

	switch {
	case res.Intent == IntentCrisis:
		return ResponsePayload{Response: r.crisis, Sentiment: SentimentCrisis, CrisisFlag: true}

	case res.MedicalCategory != MedicalNone:
		reply := personalize(r.medical[res.MedicalCategory], assessmentHeader, uc.Name)
		return ResponsePayload{Response: reply, Sentiment: res.Sentiment, CrisisFlag: res.IsCrisis}
	}

	reply := personalize(r.choose(intentReplies[res.Intent]), clinicalHeader, uc.Name)
	return ResponsePayload{Response: reply, Sentiment: res.Sentiment}
}

func (r *Responder) choose(pool []string) string {
	if len(pool) == 0 {
		pool = intentReplies[IntentDefault]
	}
	i := r.pick(len(pool))
	if i < 0 || i >= len(pool) {
		i = 0
	}
	return pool[i]
}

// personalize inserts "Patient: <first name>" right after the first occurrence of header.
// Replies without the header are returned unchanged.
func personalize(reply, header, name string) string {
	first := firstName(name)
	if first == "" {
		return reply
	}
	return strings.Replace(reply, header, header+"Patient: "+first+"\n", 1)
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
