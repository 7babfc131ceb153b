package response_engine

import (
	"fmt"
	"strings"
)

const (
	clinicalHeader   = "🩺 **Clinical Assessment**\n"
	assessmentHeader = "🩺 **Assessment:**\n"
)

// FormatResponse composes the three-part reply used by the therapeutic templates.
func FormatResponse(assessment string, nextSteps []string, followUp string) string {
	var b strings.Builder
	b.WriteString(clinicalHeader)
	b.WriteString(assessment)
	b.WriteString("\n\n📋 **Recommended Next Steps**\n")
	writeBullets(&b, nextSteps)
	b.WriteString("\n\n💬 **Follow-up**\n")
	b.WriteString(followUp)
	return b.String()
}

// formatMedical composes the layout shared by the medical-category and crisis alerts.
func formatMedical(title, assessment, stepsTitle string, nextSteps []string, followUp string) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(assessmentHeader)
	b.WriteString(assessment)
	b.WriteString("\n\n📋 **")
	b.WriteString(stepsTitle)
	b.WriteString(":**\n")
	writeBullets(&b, nextSteps)
	b.WriteString("\n\n💬 **Follow-up:**\n")
	b.WriteString(followUp)
	return b.String()
}

func writeBullets(b *strings.Builder, steps []string) {
	for i, step := range steps {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("• ")
		b.WriteString(step)
	}
}

// Helpline is a crisis phone line named in the critical alert.
type Helpline struct {
	Number string
	Name   string
}

// CrisisContacts holds the escalation numbers embedded in crisis and emergency replies.
type CrisisContacts struct {
	Helplines       []Helpline
	EmergencyNumber string
}

// DefaultCrisisContacts returns the India helplines and the 112 emergency number.
func DefaultCrisisContacts() CrisisContacts {
	return CrisisContacts{
		Helplines: []Helpline{
			{Number: "9999 666 555", Name: "Vandrevala Foundation"},
			{Number: "9820 466 726", Name: "AASRA"},
		},
		EmergencyNumber: "112",
	}
}

// ParseHelplines reads a "number:name,number:name" list. Entries without a number are skipped.
func ParseHelplines(list string) []Helpline {
	var out []Helpline
	for _, entry := range strings.Split(list, ",") {
		number, name, _ := strings.Cut(entry, ":")
		number, name = strings.TrimSpace(number), strings.TrimSpace(name)
		if number == "" {
			continue
		}
		out = append(out, Helpline{Number: number, Name: name})
	}
	return out
}

func (c CrisisContacts) emergencyNumber() string {
	if c.EmergencyNumber == "" {
		return "112"
	}
	return c.EmergencyNumber
}

// helplineStep renders "📞 Call **A** (X) or **B** (Y)." or "" when no helpline is configured.
func (c CrisisContacts) helplineStep() string {
	parts := make([]string, 0, len(c.Helplines))
	for _, h := range c.Helplines {
		if h.Number == "" {
			continue
		}
		if h.Name == "" {
			parts = append(parts, fmt.Sprintf("**%s**", h.Number))
			continue
		}
		parts = append(parts, fmt.Sprintf("**%s** (%s)", h.Number, h.Name))
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return "📞 Call " + parts[0] + "."
	default:
		return "📞 Call " + strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1] + "."
	}
}

func crisisTemplate(c CrisisContacts) string {
	steps := make([]string, 0, 3)
	if s := c.helplineStep(); s != "" {
		steps = append(steps, s)
	}
	steps = append(steps,
		fmt.Sprintf("🏥 Call **%s** for Emergency Services immediately.", c.emergencyNumber()),
		"Proceed to the nearest hospital emergency room.",
	)
	return formatMedical(
		"🚨 **CRITICAL MEDICAL ALERT**",
		"High-risk indicators detected. You require immediate professional intervention.",
		"Mandatory Next Steps",
		steps,
		"Please confirm that you are currently safe and are contacting emergency services.",
	)
}

func medicalTemplates(c CrisisContacts) map[MedicalCategory]string {
	return map[MedicalCategory]string{
		MedicalEmergency: formatMedical(
			"🚨 **Medical Category: Emergency**",
			"Severe physical distress or potential critical medical event detected.",
			"Immediate Next Steps",
			[]string{
				"🏥 **Seek immediate medical attention.**",
				"Go to the nearest hospital emergency room immediately.",
				fmt.Sprintf("Call **%s** for emergency services.", c.emergencyNumber()),
				"Do not attempt to drive yourself if you are experiencing severe pain, chest tightness, or altered consciousness.",
			},
			"Are emergency responders on their way, or is someone taking you to the hospital right now?",
		),
		MedicalConsultDoctor: formatMedical(
			"⚕️ **Medical Category: Consult Doctor**",
			"Moderate physical illness or persistent symptoms detected that require professional evaluation.",
			"Recommended Next Steps",
			[]string{
				"Schedule an appointment with your primary care physician or visit an urgent care clinic.",
				"Keep a detailed log of your symptoms, including severity and duration.",
				"Monitor your temperature and stay hydrated.",
				"Treat as an emergency if symptoms suddenly become severe or unbearable.",
			},
			"How long have these symptoms been going on, and are they worsening?",
		),
		MedicalSelfCare: formatMedical(
			"🩹 **Medical Category: Self-Care**",
			"Mild discomfort or minor physical symptoms detected, typically manageable at home.",
			"Recommended Next Steps",
			[]string{
				"Prioritize rest and ensure adequate hydration.",
				"Use over-the-counter remedies according to package instructions, if appropriate.",
				"Monitor for any signs of worsening.",
				"Consult a doctor if symptoms persist beyond a few days.",
			},
			"Are you able to rest comfortably right now?",
		),
		MedicalGeneralSymptom: formatMedical(
			"🩺 **Medical Category: General Symptom Assessment**",
			"You have reported experiencing symptoms or discomfort, but more specific information is needed.",
			"Recommended Next Steps",
			[]string{
				"Take a moment to assess exactly what part of your body is affected.",
				"Note if the pain/discomfort is sharp, dull, throbbing, or constant.",
				"Check if you have a fever or any rapidly changing symptoms.",
			},
			"Please describe your specific symptoms in more detail (e.g., location, severity from 1-10, type of pain).",
		),
	}
}

// intentReplies holds the reply pool for every intent, IntentDefault included.
var intentReplies = map[Intent][]string{
	IntentGreeting: {
		"Hello! I am ArtIntX, your AI healthcare guardian. How can I assist you with your health or wellness today?",
		"Hi there! I'm here to provide healthcare guidance and support. What's on your mind?",
		"Greetings! I'm ArtIntX. How are you feeling physically and emotionally today?",
	},
	IntentHowAreYou: {
		"I'm functioning at full capacity and ready to assist you! How are you doing?",
		"I'm doing well, thank you for asking. How can I help you with your health journey today?",
	},
	IntentSadOrDepressed: {
		FormatResponse(
			"I recognize signs of depression and low mood from your message. This is a clinically valid health concern.",
			[]string{
				"Engage in one small, manageable activity today (e.g., taking a short walk).",
				"Ensure you are drinking water and eating balanced meals.",
				"Consider logging these feelings in your journal to track patterns.",
			},
			"Have you experienced any changes in your appetite or physical energy levels?",
		),
	},
	IntentAnxious: {
		FormatResponse(
			"You are exhibiting signs of anxiety or heightened stress, which affects both mind and body.",
			[]string{
				"Try the 5-4-3-2-1 grounding technique.",
				"Practice slow diaphragmatic breathing (inhale 4s, hold 4s, exhale 6s).",
				"Reduce caffeine intake for the next 24 hours.",
			},
			"Where in your body do you feel this anxiety right now (e.g., chest tightness, stomach upset)?",
		),
	},
	IntentHopeless: {
		FormatResponse(
			"Feelings of hopelessness are severe symptoms of depression and warrant careful attention.",
			[]string{
				"Reach out to a trusted individual or healthcare provider immediately.",
				"Remind yourself that this cognitive distortion is a symptom, not a permanent reality.",
				"Focus only on getting through the next hour, rather than the whole day.",
			},
			"Can you tell me about your sleep and eating patterns over the last 48 hours?",
		),
	},
	IntentSleep: {
		FormatResponse(
			"Sleep disturbances profoundly impact immune function, cardiovascular health, and emotional regulation.",
			[]string{
				"Maintain a consistent sleep-wake cycle.",
				"Eliminate screen exposure 1 hour before bed.",
				"Keep your bedroom cool (65–68°F) and completely dark.",
			},
			"Are you having trouble falling asleep, or staying asleep?",
		),
	},
	IntentSocial: {
		FormatResponse(
			"Social isolation is a recognized health risk factor, comparable to chronic physical conditions.",
			[]string{
				"Identify one person you feel safe sending a brief message to.",
				"Look into local or online support groups.",
				"Schedule a brief, low-pressure social interaction this week.",
			},
			"Do you have a regular healthcare provider or therapist you can talk to?",
		),
	},
	IntentProgress: {
		"That's wonderful to hear! Seeing progress is a great indicator that your wellness strategies are working. Keep up the great work!",
		"I'm so glad you're feeling better. Improvement in your health journey is always something to celebrate.",
	},
	IntentCBTThoughts: {
		FormatResponse(
			"Cognitive distortions can simulate a stress response in the body, affecting your overall health.",
			[]string{
				"Write down the negative thought.",
				"Identify whether it is based on objective facts or subjective feelings.",
				"Reframe the thought into a more balanced, realistic statement.",
			},
			"What is the most distressing thought you are currently focused on?",
		),
	},
	IntentBreathing: {
		FormatResponse(
			"Regulating your breath is a physiological intervention that lowers heart rate and blood pressure.",
			[]string{
				"Begin Box Breathing: Inhale for 4s, hold for 4s, exhale for 4s, hold for 4s.",
				"Repeat this cycle 4 times.",
				"Focus entirely on the physical sensation of the air moving.",
			},
			"How does your chest and body feel after completing the breathing cycle?",
		),
	},
	IntentTherapy: {
		FormatResponse(
			"Engaging with professional healthcare and therapy is a crucial step in managing your well-being.",
			[]string{
				"Adhere to your prescribed treatment or medication plan.",
				"Prepare a list of symptoms to discuss at your next appointment.",
				"Communicate openly with your provider about any side effects.",
			},
			"Are you currently following a specific treatment plan or taking any medications?",
		),
	},
	IntentRelationships: {
		"Interpersonal relationships can certainly impact our overall stress and health. It's important to navigate these carefully. Have you been able to talk to anyone about this?",
		"I understand that relationship stress can be heavy. Dealing with these situations often requires patience and clear boundaries.",
	},
	IntentWorkSchool: {
		"Work and school related stress is very common. It's important to find a balance that doesn't compromise your health. Are you getting enough time to rest?",
		"Managing professional or academic pressure is key to preventing burnout. Remember to take breaks when you need them.",
	},
	IntentGratitude: {
		"Practicing gratitude is a powerful tool for wellness. It's great that you're focusing on the positive things in your life!",
		"That's a lovely sentiment. Focusing on what we're thankful for can really improve our perspective and mental health.",
	},
	IntentWhoAreYou: {
		"I am ArtIntX, your AI healthcare guardian and health companion. I'm here to help you assess symptoms, track your wellness, and provide general healthcare guidance.",
		"ArtIntX at your service! I'm an AI companion dedicated to supporting your physical and mental health journey with symptom assessment and recovery tools.",
	},
	IntentDefault: {
		"I'm here to listen and help. Could you tell me more about what's on your mind or if you're experiencing any specific symptoms?",
		"I'm ArtIntX, your health companion. I'm ready to help you with any health-related questions or if you just need someone to talk to.",
		"Could you provide a bit more detail? I want to make sure I give you the most helpful guidance possible.",
	},
}
