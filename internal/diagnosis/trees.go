package diagnosis

// categoryRule selects a tree root from keywords in the chief complaint.
// Rules are checked in order; the first hit wins.
type categoryRule struct {
	Category string
	Keywords []string
}

// CategoryGeneral is the fallback tree used when no category keyword
// matches the chief complaint.
const CategoryGeneral = "general"

var categoryRules = []categoryRule{
	{Category: "chest_pain", Keywords: []string{"chest", "heart"}},
	{Category: "shortness_of_breath", Keywords: []string{"breath", "shortness", "wheez"}},
	{Category: "headache", Keywords: []string{"headache", "head pain", "migraine"}},
	{Category: "abdominal_pain", Keywords: []string{"abdominal", "belly", "stomach"}},
	{Category: "fever", Keywords: []string{"fever", "temperature"}},
}

func builtinTrees() map[string]*QuestionNode {
	return map[string]*QuestionNode{
		"chest_pain":          chestPainTree(),
		"headache":            headacheTree(),
		"abdominal_pain":      abdominalPainTree(),
		"fever":               feverTree(),
		"shortness_of_breath": breathTree(),
		CategoryGeneral:       generalTree(),
	}
}

func chestPainTree() *QuestionNode {
	acs := &QuestionNode{
		ID: "cp_acs",
		Match: &PatternMatch{
			Condition:  "acute coronary syndrome",
			Summary:    "Possible acute coronary syndrome",
			Urgency:    "red",
			Confidence: 0.8,
			RedFlags:   []string{"cardiac symptom cluster"},
			Advice:     "Call emergency services immediately. Do not drive yourself.",
		},
	}
	anginaPattern := &QuestionNode{
		ID: "cp_angina",
		Match: &PatternMatch{
			Condition:  "exertional chest pain",
			Summary:    "Exertional chest pain without radiation",
			Urgency:    "yellow",
			Confidence: 0.55,
			Advice:     "See a doctor within 24 hours. Stop and rest if pain returns with activity.",
		},
	}
	atypical := &QuestionNode{
		ID: "cp_atypical",
		Match: &PatternMatch{
			Condition:  "atypical chest pain",
			Summary:    "Chest pain without a clear cardiac pattern",
			Urgency:    "yellow",
			Confidence: 0.4,
			Advice:     "Arrange medical review soon; seek emergency care if pain worsens or new symptoms appear.",
		},
	}
	musculoskeletal := &QuestionNode{
		ID: "cp_pleuritic",
		Match: &PatternMatch{
			Condition:  "pleuritic or musculoskeletal pain",
			Summary:    "Pain tied to breathing or movement",
			Urgency:    "yellow",
			Confidence: 0.55,
			Advice:     "See a doctor if it persists more than a day or breathing becomes difficult.",
		},
	}
	anxiety := &QuestionNode{
		ID: "cp_anxiety",
		Match: &PatternMatch{
			Condition:  "anxiety-related chest discomfort",
			Summary:    "Sharp localized pain in a stress context",
			Urgency:    "yellow",
			Confidence: 0.5,
			Advice:     "Slow breathing exercises may help; have cardiac causes ruled out by a doctor.",
		},
	}
	reflux := &QuestionNode{
		ID: "cp_reflux",
		Match: &PatternMatch{
			Condition:  "reflux or heartburn",
			Summary:    "Burning pain suggestive of acid reflux",
			Urgency:    "green",
			Confidence: 0.5,
			Advice:     "Avoid large or late meals. See a doctor if episodes recur or worsen.",
		},
	}

	assoc := &QuestionNode{
		ID:      "cp_assoc",
		Prompt:  "Do you also have shortness of breath, sweating, nausea, or dizziness?",
		Clarify: "Along with the chest pain, have you noticed trouble breathing, sweating, feeling sick, or feeling faint?",
		Shape:   ShapeFreeText,
		Edges: []Edge{
			{Patterns: []string{"breath", "short", "sweat", "nausea", "dizz", "faint"}, RedFlag: "associated cardiac symptoms", Child: acs},
			{Patterns: []string{"no", "none", "nothing"}, Child: atypical},
		},
		Default: atypical,
	}
	radiation := &QuestionNode{
		ID:      "cp_radiation",
		Prompt:  "Does the pain spread to your arm, jaw, neck, shoulder, or back?",
		Clarify: "Is the pain only in your chest, or does it travel anywhere - for example down an arm or up to the jaw?",
		Shape:   ShapeFreeText,
		Edges: []Edge{
			{Patterns: []string{"arm", "jaw", "neck", "shoulder", "back"}, RedFlag: "radiating pain", Child: acs},
			{Patterns: []string{"no", "none", "only", "just"}, Child: anginaPattern},
		},
		Default: atypical,
	}
	onset := &QuestionNode{
		ID:      "cp_onset",
		Prompt:  "Did the pain start during exertion or while you were at rest?",
		Clarify: "Were you doing something physical when the pain began, or were you resting?",
		Shape:   ShapeChoice,
		Edges: []Edge{
			{Patterns: []string{"exertion", "exercise", "activity", "walking", "climbing", "working"}, RedFlag: "exertional onset", Child: radiation},
			{Patterns: []string{"rest", "sitting", "sleeping", "lying", "nothing"}, Child: assoc},
		},
		Default: assoc,
	}

	return &QuestionNode{
		ID:      "cp_root",
		Prompt:  "How would you describe the chest pain: crushing or pressure-like, sharp and stabbing, or burning?",
		Clarify: "Which is closest to how the pain feels - a heavy pressure, a sharp stab, or a burning sensation?",
		Shape:   ShapeChoice,
		Edges: []Edge{
			{Patterns: []string{"crushing", "pressure", "tight", "heavy", "squeez"}, RedFlag: "pressure-type chest pain", Child: onset},
			{Patterns: []string{"sharp", "stabbing", "point", "localized"}, Child: &QuestionNode{
				ID:      "cp_sharp",
				Prompt:  "Does it get worse with deep breaths or movement, or did it come on with stress or panic?",
				Clarify: "Does breathing in deeply or moving around change the pain? Or did it appear during a stressful moment?",
				Shape:   ShapeFreeText,
				Edges: []Edge{
					{Patterns: []string{"breath", "deep", "movement", "moving", "cough", "turn"}, Child: musculoskeletal},
					{Patterns: []string{"stress", "panic", "anxious", "anxiety", "worried"}, Child: anxiety},
				},
				Default: atypical,
			}},
			{Patterns: []string{"burn", "heartburn", "acid", "after eating", "after meals"}, Child: reflux},
		},
		Default: assoc,
	}
}

func headacheTree() *QuestionNode {
	intracranial := &QuestionNode{
		ID: "hd_intracranial",
		Match: &PatternMatch{
			Condition:  "possible intracranial event",
			Summary:    "Sudden severe headache with neurological signs",
			Urgency:    "red",
			Confidence: 0.85,
			RedFlags:   []string{"focal neurological signs"},
			Advice:     "Call emergency services immediately.",
		},
	}
	meningitis := &QuestionNode{
		ID: "hd_meningitis",
		Match: &PatternMatch{
			Condition:  "meningitis concern",
			Summary:    "Headache with fever and neck stiffness",
			Urgency:    "red",
			Confidence: 0.8,
			RedFlags:   []string{"fever with stiff neck"},
			Advice:     "Go to an emergency department without delay.",
		},
	}
	severeAcute := &QuestionNode{
		ID: "hd_severe_acute",
		Match: &PatternMatch{
			Condition:  "severe acute headache",
			Summary:    "Sudden severe headache without neurological signs",
			Urgency:    "yellow",
			Confidence: 0.55,
			Advice:     "Have this assessed by a doctor today; a sudden severe headache should not be ignored.",
		},
	}
	migraine := &QuestionNode{
		ID: "hd_migraine",
		Match: &PatternMatch{
			Condition:  "migraine",
			Summary:    "One-sided throbbing headache with typical features",
			Urgency:    "yellow",
			Confidence: 0.7,
			Advice:     "Rest in a dark quiet room. See a neurologist if attacks are frequent.",
		},
	}
	probableMigraine := &QuestionNode{
		ID: "hd_probable_migraine",
		Match: &PatternMatch{
			Condition:  "probable migraine",
			Summary:    "Throbbing headache without the classic accompaniments",
			Urgency:    "yellow",
			Confidence: 0.45,
			Advice:     "Rest and hydration; see a doctor if the pattern is new or worsening.",
		},
	}
	tension := &QuestionNode{
		ID: "hd_tension",
		Match: &PatternMatch{
			Condition:  "tension-type headache",
			Summary:    "Band-like pressure headache tied to stress or posture",
			Urgency:    "green",
			Confidence: 0.7,
			Advice:     "Rest, relax the neck muscles, hydrate. See a doctor if it persists beyond two weeks.",
		},
	}
	nonspecific := &QuestionNode{
		ID: "hd_nonspecific",
		Match: &PatternMatch{
			Condition:  "nonspecific headache",
			Summary:    "Headache without a clear pattern",
			Urgency:    "yellow",
			Confidence: 0.35,
			Advice:     "Monitor closely; see a doctor if it worsens or new symptoms appear.",
		},
	}

	neuro := &QuestionNode{
		ID:      "hd_neuro",
		Prompt:  "Any weakness, numbness, trouble speaking, vision changes, or loss of balance?",
		Clarify: "Have you noticed anything like a weak arm, numbness, slurred speech, blurry vision, or stumbling?",
		Shape:   ShapeFreeText,
		Edges: []Edge{
			{Patterns: []string{"weak", "numb", "speech", "speak", "vision", "balance", "slur"}, RedFlag: "focal neurological signs", Child: intracranial},
			{Patterns: []string{"no", "none", "nothing"}, Child: severeAcute},
		},
		Default: severeAcute,
	}
	migraineFeatures := &QuestionNode{
		ID:      "hd_features",
		Prompt:  "Do you have nausea, vomiting, or sensitivity to light or sound with it?",
		Clarify: "Does light or noise bother you more than usual, or do you feel sick to your stomach?",
		Shape:   ShapeFreeText,
		Edges: []Edge{
			{Patterns: []string{"nausea", "vomit", "light", "sound", "noise", "aura", "visual"}, Child: migraine},
			{Patterns: []string{"no", "none", "nothing"}, Child: probableMigraine},
		},
		Default: probableMigraine,
	}
	tensionContext := &QuestionNode{
		ID:      "hd_context",
		Prompt:  "Any recent stress, poor sleep, or neck tension?",
		Clarify: "Has anything changed lately - stressful period, bad sleep, long hours at a desk?",
		Shape:   ShapeFreeText,
		Edges: []Edge{
			{Patterns: []string{"stress", "sleep", "neck", "work", "desk", "tense"}, Child: tension},
			{Patterns: []string{"no", "none", "nothing"}, Child: nonspecific},
		},
		Default: nonspecific,
	}

	return &QuestionNode{
		ID:      "hd_root",
		Prompt:  "Did the headache start suddenly like a thunderclap, or build up gradually? And how does it feel: throbbing, or a dull pressure?",
		Clarify: "Was it at full force within seconds, or did it creep up? Is it pounding, or more of a steady squeeze?",
		Shape:   ShapeFreeText,
		Edges: []Edge{
			{Patterns: []string{"sudden", "thunderclap", "worst", "lightning", "seconds"}, RedFlag: "sudden-onset headache", Child: neuro},
			{Patterns: []string{"fever", "stiff neck"}, RedFlag: "fever with headache", Child: meningitis},
			{Patterns: []string{"throbbing", "pulsating", "pounding", "one side", "one-sided"}, Child: migraineFeatures},
			{Patterns: []string{"pressure", "dull", "both sides", "band", "tight", "gradual"}, Child: tensionContext},
		},
		Default: tensionContext,
	}
}

func abdominalPainTree() *QuestionNode {
	appendicitis := &QuestionNode{
		ID: "ab_appendicitis",
		Match: &PatternMatch{
			Condition:  "appendicitis concern",
			Summary:    "Lower-right abdominal pain with systemic features",
			Urgency:    "red",
			Confidence: 0.75,
			RedFlags:   []string{"localized right lower quadrant pain"},
			Advice:     "Go to an emergency department for assessment today.",
		},
	}
	giBleed := &QuestionNode{
		ID: "ab_gi_bleed",
		Match: &PatternMatch{
			Condition:  "gastrointestinal bleeding concern",
			Summary:    "Abdominal symptoms with blood in vomit or stool",
			Urgency:    "red",
			Confidence: 0.8,
			RedFlags:   []string{"gastrointestinal bleeding"},
			Advice:     "Seek emergency care now.",
		},
	}
	gastroenteritis := &QuestionNode{
		ID: "ab_gastro",
		Match: &PatternMatch{
			Condition:  "gastroenteritis",
			Summary:    "Crampy pain with vomiting or diarrhea",
			Urgency:    "yellow",
			Confidence: 0.65,
			Advice:     "Rest, small frequent fluids, bland diet. Seek care for dehydration or blood.",
		},
	}
	reflux := &QuestionNode{
		ID: "ab_reflux",
		Match: &PatternMatch{
			Condition:  "gastritis or reflux",
			Summary:    "Burning upper abdominal pain related to meals",
			Urgency:    "green",
			Confidence: 0.55,
			Advice:     "Avoid trigger foods and late meals. See a doctor if it persists.",
		},
	}
	nonspecific := &QuestionNode{
		ID: "ab_nonspecific",
		Match: &PatternMatch{
			Condition:  "nonspecific abdominal pain",
			Summary:    "Abdominal pain without a clear pattern",
			Urgency:    "yellow",
			Confidence: 0.35,
			Advice:     "Monitor closely; get medical review if it lasts beyond 24-48 hours or worsens.",
		},
	}

	systemic := &QuestionNode{
		ID:      "ab_systemic",
		Prompt:  "Do you have fever, nausea, or loss of appetite with the pain?",
		Clarify: "Besides the pain, do you feel feverish or sick, or have you lost your appetite?",
		Shape:   ShapeFreeText,
		Edges: []Edge{
			{Patterns: []string{"fever", "nausea", "appetite", "vomit", "hot"}, RedFlag: "systemic features with abdominal pain", Child: appendicitis},
			{Patterns: []string{"no", "none", "nothing"}, Child: nonspecific},
		},
		Default: nonspecific,
	}
	giSymptoms := &QuestionNode{
		ID:      "ab_gi",
		Prompt:  "Any vomiting, diarrhea, or blood in your vomit or stool?",
		Clarify: "Have you been vomiting or had diarrhea? Have you seen any blood?",
		Shape:   ShapeFreeText,
		Edges: []Edge{
			{Patterns: []string{"blood", "black stool", "dark stool"}, RedFlag: "gastrointestinal bleeding", Child: giBleed},
			{Patterns: []string{"vomit", "diarrhea", "diarrhoea", "nausea", "both"}, Child: gastroenteritis},
			{Patterns: []string{"no", "none", "nothing"}, Child: nonspecific},
		},
		Default: nonspecific,
	}

	return &QuestionNode{
		ID:      "ab_root",
		Prompt:  "Where is the pain strongest: lower right, upper abdomen, or spread all over? And is it sharp, crampy, or burning?",
		Clarify: "Point to the worst spot - lower right side, up near the ribs, or everywhere? Does it stab, cramp, or burn?",
		Shape:   ShapeFreeText,
		Edges: []Edge{
			{Patterns: []string{"lower right", "right lower", "right side"}, RedFlag: "localized right lower quadrant pain", Child: systemic},
			{Patterns: []string{"burn", "upper", "after eating", "after meals", "ribs"}, Child: reflux},
			{Patterns: []string{"cramp", "all over", "everywhere", "diffuse", "spread"}, Child: giSymptoms},
		},
		Default: giSymptoms,
	}
}

func feverTree() *QuestionNode {
	sepsis := &QuestionNode{
		ID: "fv_sepsis",
		Match: &PatternMatch{
			Condition:  "sepsis concern",
			Summary:    "High fever with confusion or labored breathing",
			Urgency:    "red",
			Confidence: 0.85,
			RedFlags:   []string{"possible sepsis"},
			Advice:     "Call emergency services immediately.",
		},
	}
	meningitis := &QuestionNode{
		ID: "fv_meningitis",
		Match: &PatternMatch{
			Condition:  "meningitis concern",
			Summary:    "Fever with rash, stiff neck, or severe headache",
			Urgency:    "red",
			Confidence: 0.8,
			RedFlags:   []string{"fever with stiff neck"},
			Advice:     "Go to an emergency department without delay.",
		},
	}
	respiratory := &QuestionNode{
		ID: "fv_respiratory",
		Match: &PatternMatch{
			Condition:  "respiratory infection",
			Summary:    "Fever with cough, sore throat, or congestion",
			Urgency:    "yellow",
			Confidence: 0.65,
			Advice:     "Rest and fluids. Seek care for breathing difficulty or fever beyond three days.",
		},
	}
	significant := &QuestionNode{
		ID: "fv_significant",
		Match: &PatternMatch{
			Condition:  "significant fever",
			Summary:    "High fever without localizing features",
			Urgency:    "yellow",
			Confidence: 0.5,
			Advice:     "See a doctor within 24 hours and monitor your temperature.",
		},
	}
	simple := &QuestionNode{
		ID: "fv_simple",
		Match: &PatternMatch{
			Condition:  "uncomplicated fever",
			Summary:    "Mild fever without warning signs",
			Urgency:    "green",
			Confidence: 0.55,
			Advice:     "Fluids, rest, and antipyretics as directed. See a doctor if it lasts beyond three days.",
		},
	}

	severity := &QuestionNode{
		ID:      "fv_severity",
		Prompt:  "Any confusion, drowsiness, rapid heartbeat, or difficulty breathing?",
		Clarify: "Do you feel unusually confused or sleepy, or is your heart racing or breathing hard?",
		Shape:   ShapeFreeText,
		Edges: []Edge{
			{Patterns: []string{"confus", "drowsy", "sleepy", "rapid", "racing", "breath"}, RedFlag: "altered mental state with fever", Child: sepsis},
			{Patterns: []string{"no", "none", "nothing"}, Child: significant},
		},
		Default: significant,
	}

	return &QuestionNode{
		ID:      "fv_root",
		Prompt:  "How high has the fever been, and do you have cough or sore throat, a rash or stiff neck, or neither?",
		Clarify: "Roughly what temperature have you measured? And is there a cough, a rash, a stiff neck, or none of those?",
		Shape:   ShapeFreeText,
		Edges: []Edge{
			{Patterns: []string{"rash", "stiff neck", "severe headache"}, RedFlag: "rash or stiff neck with fever", Child: meningitis},
			{Patterns: []string{"104", "105", "40", "41", "very high", "high fever"}, RedFlag: "high fever", Child: severity},
			{Patterns: []string{"cough", "throat", "congestion", "runny", "cold"}, Child: respiratory},
			{Patterns: []string{"mild", "low", "100", "101", "37", "38"}, Child: simple},
		},
		Default: severity,
	}
}

func breathTree() *QuestionNode {
	embolism := &QuestionNode{
		ID: "sb_embolism",
		Match: &PatternMatch{
			Condition:  "pulmonary embolism concern",
			Summary:    "Sudden breathlessness with chest pain or leg swelling",
			Urgency:    "red",
			Confidence: 0.8,
			RedFlags:   []string{"sudden dyspnea with chest pain"},
			Advice:     "Call emergency services immediately.",
		},
	}
	acute := &QuestionNode{
		ID: "sb_acute",
		Match: &PatternMatch{
			Condition:  "acute breathlessness",
			Summary:    "Sudden breathlessness without a clear cause",
			Urgency:    "red",
			Confidence: 0.6,
			RedFlags:   []string{"sudden dyspnea"},
			Advice:     "Seek emergency assessment; sudden breathlessness is never safe to wait on.",
		},
	}
	obstructive := &QuestionNode{
		ID: "sb_obstructive",
		Match: &PatternMatch{
			Condition:  "asthma or COPD exacerbation",
			Summary:    "Gradual breathlessness with wheeze or known airway disease",
			Urgency:    "yellow",
			Confidence: 0.65,
			Advice:     "Use your rescue inhaler if prescribed. Seek urgent care if it does not settle.",
		},
	}
	gradual := &QuestionNode{
		ID: "sb_gradual",
		Match: &PatternMatch{
			Condition:  "progressive breathlessness",
			Summary:    "Breathlessness building over days",
			Urgency:    "yellow",
			Confidence: 0.45,
			Advice:     "See a doctor within 24 hours.",
		},
	}
	anxiety := &QuestionNode{
		ID: "sb_anxiety",
		Match: &PatternMatch{
			Condition:  "anxiety-related breathlessness",
			Summary:    "Breathlessness in a panic or stress context",
			Urgency:    "yellow",
			Confidence: 0.5,
			Advice:     "Try paced breathing. Have a doctor rule out physical causes.",
		},
	}

	features := &QuestionNode{
		ID:      "sb_features",
		Prompt:  "Do you have chest pain, or any swelling or pain in one leg?",
		Clarify: "Along with the breathing trouble, is there chest pain, or is one calf swollen or sore?",
		Shape:   ShapeFreeText,
		Edges: []Edge{
			{Patterns: []string{"chest", "leg", "swelling", "swollen", "calf", "clot"}, RedFlag: "embolism risk features", Child: embolism},
			{Patterns: []string{"no", "none", "nothing"}, Child: acute},
		},
		Default: acute,
	}
	airway := &QuestionNode{
		ID:      "sb_airway",
		Prompt:  "Any wheezing, or a history of asthma or COPD?",
		Clarify: "Do you hear a whistling sound when you breathe, or have you been told you have asthma or COPD?",
		Shape:   ShapeFreeText,
		Edges: []Edge{
			{Patterns: []string{"wheez", "asthma", "copd", "whistl", "inhaler"}, Child: obstructive},
			{Patterns: []string{"no", "none", "nothing"}, Child: gradual},
		},
		Default: gradual,
	}

	return &QuestionNode{
		ID:      "sb_root",
		Prompt:  "Did the breathlessness come on suddenly, build up gradually, or start during a moment of panic or stress?",
		Clarify: "Was it sudden - minutes - or has it grown over hours or days? Or did it begin while you were anxious?",
		Shape:   ShapeChoice,
		Edges: []Edge{
			{Patterns: []string{"sudden", "suddenly", "minutes", "all at once"}, RedFlag: "sudden dyspnea", Child: features},
			{Patterns: []string{"gradual", "gradually", "days", "slowly", "exertion"}, Child: airway},
			{Patterns: []string{"panic", "stress", "anxious", "anxiety"}, Child: anxiety},
		},
		Default: airway,
	}
}

func generalTree() *QuestionNode {
	progressive := &QuestionNode{
		ID: "gn_progressive",
		Match: &PatternMatch{
			Condition:  "progressive symptom",
			Summary:    "Symptom reported as worsening",
			Urgency:    "yellow",
			Confidence: 0.4,
			Advice:     "A worsening symptom deserves medical review within 24 hours.",
		},
	}
	selfLimited := &QuestionNode{
		ID: "gn_self_limited",
		Match: &PatternMatch{
			Condition:  "self-limited symptom",
			Summary:    "Mild or improving symptom",
			Urgency:    "green",
			Confidence: 0.45,
			Advice:     "Home care and monitoring. See a doctor if it returns or persists beyond 48 hours.",
		},
	}
	unspecified := &QuestionNode{
		ID: "gn_unspecified",
		Match: &PatternMatch{
			Condition:  "unspecified symptom",
			Summary:    "Symptom could not be characterized",
			Urgency:    "yellow",
			Confidence: 0.3,
			Advice:     "When in doubt, have it checked by a doctor.",
		},
	}

	course := &QuestionNode{
		ID:      "gn_course",
		Prompt:  "Is it getting worse, getting better, or staying about the same?",
		Clarify: "Compared with when it started, would you say it is worse, better, or unchanged?",
		Shape:   ShapeChoice,
		Edges: []Edge{
			{Patterns: []string{"worse", "worsening", "severe", "bad"}, Child: progressive},
			{Patterns: []string{"better", "improving", "mild", "same", "unchanged"}, Child: selfLimited},
		},
		Default: unspecified,
	}

	return &QuestionNode{
		ID:      "gn_root",
		Prompt:  "Tell me a bit more about the symptom. Is it constant, or does it come and go?",
		Clarify: "Is the symptom there all the time, or does it appear and disappear?",
		Shape:   ShapeFreeText,
		Edges: []Edge{
			{Patterns: []string{"constant", "all the time", "always"}, Child: course},
			{Patterns: []string{"comes and goes", "come and go", "sometimes", "on and off", "intermittent"}, Child: course},
		},
		Default: course,
	}
}
