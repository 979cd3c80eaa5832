package knowledge

// Document is one curated first-aid reference. The corpus is static data:
// it is compiled in, loaded once, and never mutated at runtime.
type Document struct {
	ID       string
	Title    string
	Category string
	Content  string
}

// Corpus returns the curated first-aid and emergency protocol documents.
func Corpus() []Document {
	return corpus
}

var corpus = []Document{
	{
		ID:       "chest_pain_001",
		Title:    "Chest Pain - Initial Assessment",
		Category: "Emergency",
		Content: `If chest pain is accompanied by shortness of breath, radiation to the arm or jaw, or dizziness, call emergency services immediately.
Heart attack warning signs: crushing pressure, cold sweats, nausea.
First aid: have the patient sit or lie down and loosen tight clothing.
If prescribed nitroglycerin is available and the patient is conscious, they may take it.
Never drive to hospital with chest pain - call an ambulance.`,
	},
	{
		ID:       "breathing_001",
		Title:    "Severe Breathing Difficulty",
		Category: "Emergency",
		Content: `Signs requiring an immediate emergency call: gasping, inability to complete sentences, bluish lips.
Asthma attack: look for wheezing, use a rescue inhaler if available.
Anaphylaxis with a known severe allergy: use an epinephrine auto-injector if available.
Position the patient sitting upright, leaning forward slightly, and remove tight clothing from the neck and chest.
Keep the patient calm; anxiety worsens breathing. Do not leave the patient alone.`,
	},
	{
		ID:       "unconsciousness_001",
		Title:    "Unconsciousness and Loss of Consciousness",
		Category: "Emergency",
		Content: `Check responsiveness and breathing first.
Unconscious and breathing: place in the recovery position on their side.
Unconscious and not breathing: start CPR with chest compressions at 100-120 per minute and call emergency services.
Do not give food or drink to an unconscious person. Keep the patient warm and monitored.
If seizure activity is present, protect the head and do not restrain.`,
	},
	{
		ID:       "hemorrhage_001",
		Title:    "Severe Bleeding Management",
		Category: "Emergency",
		Content: `Call emergency services for heavy, uncontrolled bleeding.
Apply direct pressure with a clean cloth and do not remove it; if it soaks through, add more cloth on top.
Maintain pressure for at least 10-15 minutes and elevate the injured area above the heart if no fracture is suspected.
Do not probe the wound or remove embedded objects.
Watch for shock: pale skin, cold sweat, weak pulse, rapid breathing.`,
	},
	{
		ID:       "seizure_001",
		Title:    "Seizure First Aid",
		Category: "Emergency",
		Content: `Call emergency services for a first seizure or any seizure lasting longer than five minutes.
During the seizure do not restrain the patient and do not put anything in their mouth.
Protect the head, move dangerous objects away, and note when the seizure started.
Afterwards place the patient on their side, stay with them, and expect confusion for a while.
Do not give food or water until fully conscious.`,
	},
	{
		ID:       "stroke_001",
		Title:    "Stroke Recognition - FAST Assessment",
		Category: "Emergency",
		Content: `FAST test: Face - ask the person to smile, look for drooping on one side. Arms - raise both, watch for drift. Speech - listen for slurring. Time - note exactly when symptoms started.
Any positive finding: call emergency services immediately.
Other stroke signs: sudden one-sided weakness or numbness, sudden vision problems, sudden loss of balance, sudden severe headache with no known cause.
Stroke is time-critical; do not drive, do not give food or drink, and have the medication list ready for paramedics.`,
	},
	{
		ID:       "anaphylaxis_001",
		Title:    "Anaphylaxis and Severe Allergic Reaction",
		Category: "Emergency",
		Content: `Signs: difficulty breathing, throat tightness, swelling of the lips, face, or throat, widespread hives, rapid weak pulse, dizziness or fainting.
Call emergency services immediately, then use an epinephrine auto-injector if available, injecting into the outer thigh.
A second dose may be needed after 5-15 minutes.
Lay the patient flat with legs elevated unless they are vomiting.
Even if symptoms improve after epinephrine, hospital assessment is mandatory.`,
	},
	{
		ID:       "fever_001",
		Title:    "Fever Assessment and Home Care",
		Category: "Non-Emergency",
		Content: `Most fevers from common infections resolve with rest and fluids.
Seek urgent care for fever above 39.4C (103F), fever with stiff neck, confusion, rash, or difficulty breathing, or fever lasting more than three days.
Home care: fluids, rest, light clothing, and antipyretics as directed on packaging.
In adults with chronic conditions or weakened immunity, lower the threshold for seeking care.`,
	},
	{
		ID:       "headache_001",
		Title:    "Headache Warning Signs",
		Category: "Non-Emergency",
		Content: `Most headaches are tension-type or migraine and respond to rest, hydration, and over-the-counter analgesia.
Emergency indicators: a sudden "worst headache of your life", headache with fever and stiff neck, headache after head trauma, or headache with weakness, numbness, vision loss, or speech difficulty.
A migraine is suggested by one-sided throbbing pain with nausea or sensitivity to light and sound.
Keep a headache diary if episodes recur; see a doctor for new or changing patterns.`,
	},
	{
		ID:       "diarrhea_001",
		Title:    "Acute Diarrhea and Dehydration",
		Category: "Non-Emergency",
		Content: `Most acute diarrhea is viral and self-limited within a few days.
Priority is preventing dehydration: small frequent sips of oral rehydration solution, water, or diluted juice.
Seek care for blood in stool, high fever, severe abdominal pain, signs of dehydration (dizziness, dark urine, dry mouth), or symptoms beyond three days.
Avoid dairy and fatty foods until recovered. Wash hands thoroughly to limit spread.`,
	},
	{
		ID:       "abdominal_001",
		Title:    "Abdominal Pain Triage Points",
		Category: "Non-Emergency",
		Content: `Concerning features: severe or worsening pain, pain localized to the lower right abdomen with fever or loss of appetite, rigid abdomen, blood in vomit or stool, or pain after significant injury.
Mild cramping with vomiting and diarrhea most often reflects gastroenteritis; manage with fluids and rest.
Burning upper abdominal pain after meals suggests reflux or gastritis; avoid trigger foods and large late meals.
Persistent pain beyond 24-48 hours warrants medical review even without red flags.`,
	},
}
