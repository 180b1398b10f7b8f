package config

// Selectors are playwright selectors for the driver, except JobLink and
// JobTitle which must be plain CSS because the results snapshot is parsed offline.
type Selectors struct {
	CookieConsent string `yaml:"cookie_consent"`
	PopupClose    string `yaml:"popup_close"`

	LoginLink   string `yaml:"login_link"`
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	LoginSubmit string `yaml:"login_submit"`

	JobsNavLink string `yaml:"jobs_nav_link"`
	JobLink     string `yaml:"job_link"`
	JobTitle    string `yaml:"job_title"`
	NextPage    string `yaml:"next_page"`

	ApplyButton       string `yaml:"apply_button"`
	CoverLetter       string `yaml:"cover_letter"`
	CitizenshipToggle string `yaml:"citizenship_toggle"`
	CitizenshipInput  string `yaml:"citizenship_input"`
	ContinueButton    string `yaml:"continue_button"`
	SubmitButton      string `yaml:"submit_button"`
}

// DefaultSelectors returns the locators of the supported job board.
func DefaultSelectors() Selectors {
	return Selectors{
		CookieConsent: "xpath=//button[contains(@class, 'fc-button') and .//p[text()='Soglašam']]",
		PopupClose:    "#btnPopupDesktopClose",

		LoginLink:   "xpath=//a[@class='user-link login']",
		Email:       "#Email",
		Password:    "#Password",
		LoginSubmit: "xpath=//button[@type='submit']",

		JobsNavLink: "xpath=//a[contains(@class, 'w-nav-link nav-link') and contains(text(), 'Delovna mesta')]",
		JobLink:     "a[href]",
		JobTitle:    "h2.title",
		NextPage:    "xpath=//li[contains(@class, 'PagedList-skipToNext')]",

		ApplyButton:       "xpath=//a[contains(@class, 'button') and contains(text(), 'Prijavi se na to delovno mesto')]",
		CoverLetter:       "#CoverLetter",
		CitizenshipToggle: "#CitizenshipId_chosen >> a.chosen-single",
		CitizenshipInput:  "#CitizenshipId_chosen >> div.chosen-drop input[type='text'][autocomplete='off']",
		ContinueButton:    "xpath=//button[@type='submit' and @name='ApplyEmail']",
		SubmitButton:      "xpath=//button[@type='submit' and contains(@class, 'modal-btn mt20 mb40')]",
	}
}

func (s *Selectors) applyDefaults() {
	d := DefaultSelectors()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&s.CookieConsent, d.CookieConsent)
	fill(&s.PopupClose, d.PopupClose)
	fill(&s.LoginLink, d.LoginLink)
	fill(&s.Email, d.Email)
	fill(&s.Password, d.Password)
	fill(&s.LoginSubmit, d.LoginSubmit)
	fill(&s.JobsNavLink, d.JobsNavLink)
	fill(&s.JobLink, d.JobLink)
	fill(&s.JobTitle, d.JobTitle)
	fill(&s.NextPage, d.NextPage)
	fill(&s.ApplyButton, d.ApplyButton)
	fill(&s.CoverLetter, d.CoverLetter)
	fill(&s.CitizenshipToggle, d.CitizenshipToggle)
	fill(&s.CitizenshipInput, d.CitizenshipInput)
	fill(&s.ContinueButton, d.ContinueButton)
	fill(&s.SubmitButton, d.SubmitButton)
}
