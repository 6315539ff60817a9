package recommender

import "admissionAdvisor/domain"

// DefaultCatalog is the built-in program list used when no catalog table is configured.
func DefaultCatalog() []domain.Course {
	return []domain.Course{
		{
			Code: "BSCS", Name: "BS Computer Science",
			Strands:    []string{"STEM", "ICT"},
			Keywords:   []string{"programming", "coding", "computers", "games", "software", "robotics", "math", "technology"},
			MinStanine: 6, MinGWA: 85,
		},
		{
			Code: "BSIT", Name: "BS Information Technology",
			Strands:    []string{"ICT", "STEM", "TVL"},
			Keywords:   []string{"computers", "networking", "programming", "web", "gadgets", "technology", "design"},
			MinStanine: 5, MinGWA: 82,
		},
		{
			Code: "BSCE", Name: "BS Civil Engineering",
			Strands:    []string{"STEM"},
			Keywords:   []string{"building", "construction", "math", "physics", "drawing", "design", "structures"},
			MinStanine: 7, MinGWA: 85,
		},
		{
			Code: "BSME", Name: "BS Mechanical Engineering",
			Strands:    []string{"STEM", "TVL"},
			Keywords:   []string{"machines", "cars", "engines", "physics", "math", "tinkering", "repair"},
			MinStanine: 7, MinGWA: 85,
		},
		{
			Code: "BSN", Name: "BS Nursing",
			Strands:    []string{"STEM"},
			Keywords:   []string{"caring", "health", "medicine", "biology", "volunteering", "helping", "people"},
			MinStanine: 6, MinGWA: 85,
		},
		{
			Code: "BSMT", Name: "BS Medical Technology",
			Strands:    []string{"STEM"},
			Keywords:   []string{"biology", "chemistry", "laboratory", "science", "health", "research"},
			MinStanine: 6, MinGWA: 85,
		},
		{
			Code: "BSA", Name: "BS Accountancy",
			Strands:    []string{"ABM"},
			Keywords:   []string{"numbers", "math", "finance", "accounting", "money", "business", "budgeting"},
			MinStanine: 7, MinGWA: 87,
		},
		{
			Code: "BSBA", Name: "BS Business Administration",
			Strands:    []string{"ABM", "GAS"},
			Keywords:   []string{"business", "selling", "leadership", "marketing", "entrepreneurship", "management"},
			MinStanine: 4, MinGWA: 80,
		},
		{
			Code: "BSHM", Name: "BS Hospitality Management",
			Strands:    []string{"ABM", "TVL", "GAS"},
			Keywords:   []string{"cooking", "baking", "travel", "food", "events", "hospitality", "serving"},
			MinStanine: 3, MinGWA: 78,
		},
		{
			Code: "BSED", Name: "Bachelor of Secondary Education",
			Strands:    []string{"HUMSS", "GAS"},
			Keywords:   []string{"teaching", "reading", "writing", "tutoring", "children", "kids", "books"},
			MinStanine: 5, MinGWA: 82,
		},
		{
			Code: "BSPSYCH", Name: "BS Psychology",
			Strands:    []string{"HUMSS", "STEM"},
			Keywords:   []string{"people", "behavior", "counseling", "helping", "reading", "mind", "listening"},
			MinStanine: 6, MinGWA: 84,
		},
		{
			Code: "ABCOMM", Name: "AB Communication",
			Strands:    []string{"HUMSS", "ARTS"},
			Keywords:   []string{"writing", "speaking", "media", "film", "photography", "journalism", "vlogging"},
			MinStanine: 4, MinGWA: 80,
		},
		{
			Code: "BSCRIM", Name: "BS Criminology",
			Strands:    []string{"HUMSS", "GAS", "SPORTS"},
			Keywords:   []string{"law", "justice", "investigation", "fitness", "sports", "police", "security"},
			MinStanine: 4, MinGWA: 78,
		},
		{
			Code: "BPED", Name: "Bachelor of Physical Education",
			Strands:    []string{"SPORTS"},
			Keywords:   []string{"sports", "basketball", "volleyball", "fitness", "coaching", "dancing", "running"},
			MinStanine: 3, MinGWA: 78,
		},
		{
			Code: "BFA", Name: "Bachelor of Fine Arts",
			Strands:    []string{"ARTS"},
			Keywords:   []string{"drawing", "painting", "art", "design", "music", "sketching", "crafts"},
			MinStanine: 3, MinGWA: 78,
		},
	}
}
