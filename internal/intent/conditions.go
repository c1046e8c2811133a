package intent

// ConditionID identifies a mental-health topic the assistant can explain.
type ConditionID string

const (
	Narcissism   ConditionID = "narcissism"
	Gaslighting  ConditionID = "gaslighting"
	BPD          ConditionID = "bpd"
	Bipolar      ConditionID = "bipolar"
	PTSD         ConditionID = "ptsd"
	OCD          ConditionID = "ocd"
	ADHD         ConditionID = "adhd"
	Depression   ConditionID = "depression"
	Anxiety      ConditionID = "anxiety"
	Codependency ConditionID = "codependency"
	Attachment   ConditionID = "attachment"
)

// Resource is a well-known, real book recommended for a condition.
type Resource struct {
	Title  string
	Author string
}

// Condition describes one detectable topic and the content used to explain it.
type Condition struct {
	ID                 ConditionID
	Name               string
	Keywords           []string
	Summary            string
	RelationshipImpact string
	Resource           Resource
}

// defaultConditions is matched in order; the first hit wins. Keywords are
// plain substrings, so short words that hide inside ordinary ones ("mania"
// in "Romania") are written as phrases instead. More specific
// relational topics come before broad mood words so "my narcissistic partner
// gives me anxiety" is treated as narcissism.
var defaultConditions = []Condition{
	{
		ID:                 Narcissism,
		Name:               "Narcissistic traits",
		Keywords:           []string{"narcissist", "narcissism", "narcissistic", "npd"},
		Summary:            "a pattern of needing admiration, low empathy, and reacting badly to criticism",
		RelationshipImpact: "partners often feel unseen, blamed, or like they are walking on eggshells",
		Resource:           Resource{Title: "Why Does He Do That?", Author: "Lundy Bancroft"},
	},
	{
		ID:                 Gaslighting,
		Name:               "Gaslighting",
		Keywords:           []string{"gaslight", "gaslighting", "gaslighted", "makes me doubt my memory", "says i'm crazy", "says im crazy"},
		Summary:            "a manipulation pattern where someone makes you doubt your own memory or perception",
		RelationshipImpact: "it erodes self-trust and makes it hard to name what is happening",
		Resource:           Resource{Title: "The Gaslight Effect", Author: "Robin Stern"},
	},
	{
		ID:                 BPD,
		Name:               "Borderline personality disorder",
		Keywords:           []string{"borderline personality", "bpd", "fear of abandonment", "black and white thinking"},
		Summary:            "intense emotions, unstable self-image, and a strong fear of abandonment",
		RelationshipImpact: "relationships can swing between closeness and conflict very quickly",
		Resource:           Resource{Title: "Stop Walking on Eggshells", Author: "Paul T. Mason and Randi Kreger"},
	},
	{
		ID:                 Bipolar,
		Name:               "Bipolar disorder",
		Keywords:           []string{"bipolar", "manic episode", "manic phase", "hypomanic", "mood swings"},
		Summary:            "episodes of elevated or irritable mood that alternate with periods of depression",
		RelationshipImpact: "loved ones may struggle with unpredictability and with knowing when to step in",
		Resource:           Resource{Title: "An Unquiet Mind", Author: "Kay Redfield Jamison"},
	},
	{
		ID:                 PTSD,
		Name:               "Post-traumatic stress",
		Keywords:           []string{"ptsd", "trauma", "flashback", "feel triggered", "felt triggered", "gets triggered", "get triggered", "so triggered"},
		Summary:            "a stress response that keeps the body on alert long after a frightening event",
		RelationshipImpact: "it can show up as withdrawal, irritability, or big reactions to small reminders",
		Resource:           Resource{Title: "The Body Keeps the Score", Author: "Bessel van der Kolk"},
	},
	{
		ID:                 OCD,
		Name:               "Obsessive-compulsive disorder",
		Keywords:           []string{"ocd", "obsessive", "compulsive", "intrusive thoughts"},
		Summary:            "unwanted intrusive thoughts paired with rituals done to quiet the distress",
		RelationshipImpact: "partners can get pulled into reassurance loops without realizing it",
		Resource:           Resource{Title: "Brain Lock", Author: "Jeffrey M. Schwartz"},
	},
	{
		ID:                 ADHD,
		Name:               "ADHD",
		Keywords:           []string{"adhd", "add diagnosis", "attention deficit", "hyperactive", "can't focus", "cant focus"},
		Summary:            "differences in attention, impulse control, and managing time and tasks",
		RelationshipImpact: "forgetfulness or distraction can be misread as not caring",
		Resource:           Resource{Title: "Driven to Distraction", Author: "Edward M. Hallowell and John J. Ratey"},
	},
	{
		ID:                 Codependency,
		Name:               "Codependency",
		Keywords:           []string{"codependent", "codependency", "people pleaser", "people pleasing"},
		Summary:            "a habit of putting someone else's needs and moods ahead of your own wellbeing",
		RelationshipImpact: "it can lead to resentment, burnout, and losing track of your own needs",
		Resource:           Resource{Title: "Codependent No More", Author: "Melody Beattie"},
	},
	{
		ID:                 Attachment,
		Name:               "Attachment styles",
		Keywords:           []string{"attachment style", "anxious attachment", "avoidant", "insecure attachment"},
		Summary:            "patterns learned early in life for seeking closeness and handling distance",
		RelationshipImpact: "anxious and avoidant styles often trigger each other in a push-pull cycle",
		Resource:           Resource{Title: "Attached", Author: "Amir Levine and Rachel Heller"},
	},
	{
		ID:                 Depression,
		Name:               "Depression",
		Keywords:           []string{"depression", "depressed", "hopeless", "no motivation", "empty inside"},
		Summary:            "a persistent low mood with loss of interest, energy, or hope",
		RelationshipImpact: "it can look like withdrawal or irritability rather than sadness",
		Resource:           Resource{Title: "Feeling Good", Author: "David D. Burns"},
	},
	{
		ID:                 Anxiety,
		Name:               "Anxiety",
		Keywords:           []string{"anxiety", "anxious", "panic attack", "panicking", "overthinking", "constant worry"},
		Summary:            "a nervous system stuck in threat mode, with worry that is hard to switch off",
		RelationshipImpact: "it often drives reassurance-seeking, avoidance, or needing things to be certain",
		Resource:           Resource{Title: "The Anxiety and Phobia Workbook", Author: "Edmund J. Bourne"},
	},
}
