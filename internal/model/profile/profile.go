package profile

// Profile captures the portfolio subject exposed to the widget and the relay prompt.
type Profile struct {
	Name        string   `json:"name"`
	ShortName   string   `json:"shortName"`
	Pronoun     string   `json:"-"` // object pronoun used in the hiring instruction
	Title       string   `json:"title"`
	Experience  string   `json:"experience"`
	Location    string   `json:"location"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	LinkedIn    string   `json:"linkedin,omitempty"`
	Expertise   []string `json:"expertise"`
	Skills      []string `json:"skills"`
	Employers   []string `json:"employers"`
	Projects    []string `json:"projects"`
	Greeting    string   `json:"greeting"`
	Suggestions []string `json:"suggestions"`
}

// Seed provides the default profile served by the portfolio.
func Seed() Profile {
	return Profile{
		Name:       "Vivekananda Malladi",
		ShortName:  "Vivekananda",
		Pronoun:    "him",
		Title:      "Frontend Developer",
		Experience: "2+ years",
		Location:   "Hyderabad, India",
		Email:      "vivekanandamalladi9@gmail.com",
		Phone:      "7680900838",
		LinkedIn:   "https://www.linkedin.com/in/vivekdev16/",
		Expertise:  []string{"React", "React Native", "Next.js"},
		Skills: []string{
			"React Native", "Next.js", "React.js", "JavaScript", "TypeScript", "Node.js", "HTML", "CSS",
		},
		Employers: []string{"Farmreach Technologies", "Shivam Medisoft Services"},
		Projects:  []string{"HR Management App", "E-commerce web application"},
		Greeting:  "👋 Hi there! I'm Vivek's AI assistant. How can I help you today?",
		Suggestions: []string{
			"What are Vivek's key skills?",
			"How can I hire Vivek for my project?",
			"What experience does Vivek have?",
			"What technologies does Vivek work with?",
			"Can you tell me about Vivek's recent projects?",
			"What is Vivek's availability?",
			"How can I contact Vivek?",
			"What makes Vivek stand out from other developers?",
		},
	}
}
