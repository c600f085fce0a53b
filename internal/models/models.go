package models

import "time"

// User is the account record mirrored into the document store on every
// successful sign-in. The ID is the identity provider's stable subject and
// never changes; name and email are editable from the profile page.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   *Address  `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Address is embedded in the user profile. Latitude/longitude are only set
// when the user picks "use current location".
type Address struct {
	Street    string   `json:"street"`
	City      string   `json:"city"`
	Details   string   `json:"details"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Pet belongs to exactly one user. Age in years, weight in kilograms.
type Pet struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Breed    string  `json:"breed"`
	Age      int     `json:"age"`
	Weight   float64 `json:"weight"`
	PhotoURL string  `json:"photoUrl,omitempty"`
}

// SubscriptionStatus values are Spanish-facing like the rest of the product.
// Transitions are one-directional: once Cancelada there is no way back.
type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "Activa"
	StatusPaused    SubscriptionStatus = "Pausada"
	StatusCancelled SubscriptionStatus = "Cancelada"
)

// Subscription ties a pet to a weekly meal plan. Price is derived from
// MealsPerWeek and never stored independently of it.
type Subscription struct {
	ID           string             `json:"id"`
	PetName      string             `json:"petName"`
	PlanName     string             `json:"planName"`
	Status       SubscriptionStatus `json:"status"`
	NextDelivery string             `json:"nextDelivery"`
	Price        float64            `json:"price"`
	MealsPerWeek int                `json:"mealsPerWeek"`
}

// PaymentMethod is demo-store data, not a PCI vault. Nothing beyond shape is
// validated.
type PaymentMethod struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Last4  string `json:"last4"`
	Expiry string `json:"expiry"`
}

// ActivityLevel enumerates the quiz's four options.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentario"
	ActivityModerate   ActivityLevel = "moderado"
	ActivityActive     ActivityLevel = "activo"
	ActivityVeryActive ActivityLevel = "muy_activo"
)

// DogProfile is the quiz's working record. Age and weight arrive as strings
// because the quiz form fields are free text. Photo is a base64 image;
// MedicalDocs is an uploaded document that must never be persisted.
type DogProfile struct {
	Name          string        `json:"name"`
	Age           string        `json:"age"`
	Breed         string        `json:"breed"`
	Weight        string        `json:"weight"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	Allergies     string        `json:"allergies"`
	Photo         string        `json:"photo,omitempty"`
	MedicalDocs   string        `json:"medicalDocs,omitempty"`
}

// Storable returns the subset of the profile that may be written to the
// lead-capture collection. The uploaded document is dropped, always.
func (p DogProfile) Storable() DogProfile {
	p.MedicalDocs = ""
	return p
}

// Lead is a prospective customer's contact information captured by the quiz.
type Lead struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// QuizSubmission is the document written to the flat quizSubmissions
// collection on quiz completion.
type QuizSubmission struct {
	ID          string     `json:"id"`
	OwnerName   string     `json:"ownerName"`
	OwnerEmail  string     `json:"ownerEmail"`
	DogProfile  DogProfile `json:"dogProfile"`
	PhotoURL    string     `json:"photoUrl,omitempty"`
	SubmittedAt time.Time  `json:"submittedAt"`
}

// DailyMeal is one day of a generated meal plan.
type DailyMeal struct {
	Day       string `json:"day"`
	Breakfast string `json:"breakfast"`
	Dinner    string `json:"dinner"`
}

// MealPlan is the fixed schema the plan-generation action must return.
type MealPlan struct {
	ProfileSummary           string      `json:"profileSummary"`
	WeeklyPlan               []DailyMeal `json:"weeklyPlan"`
	NutritionalJustification string      `json:"nutritionalJustification"`
	AdditionalTips           string      `json:"additionalTips"`
}

// ChatMessage is one turn of the chat widget. History lives with the caller;
// the server is stateless between turns.
type ChatMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

const (
	ChatSenderUser      = "user"
	ChatSenderAssistant = "ai"
)
