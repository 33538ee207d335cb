package site

const (
	defaultDescription = "Passionate about open source, I thrive on building large-scale systems and exploring the intersection of data and AI. My journey is driven by an insatiable curiosity for knowledge and innovation."
)

func defaultGiscus() *Giscus {
	return &Giscus{
		Repo:             "PsiACE/psiace",
		RepoID:           "R_kgDOKYGbpA",
		Category:         "General",
		CategoryID:       "DIC_kwDOKYGbpM4CZxPW",
		Mapping:          "title",
		Strict:           "0",
		ReactionsEnabled: "1",
		EmitMetadata:     "0",
		InputPosition:    "top",
		Theme:            "preferred_color_scheme",
		Lang:             "en",
		Loading:          "lazy",
	}
}

// Default returns the built-in site data. Every call returns a fresh copy.
func Default() *Config {
	return &Config{
		Metadata: Metadata{
			Author:      "Chojan Shang",
			Title:       "Data Is Dead, Long Live Value.",
			Description: "Passionate about open source. Stay curious about knowledge. Build large-scale systems. Live alongside data.",
			Lang:        "en-GB",
			OGLocale:    "en_GB",
			Date: DateFormat{
				Locale: "en-GB",
				Options: DateOptions{
					Day:   "numeric",
					Month: "short",
					Year:  "numeric",
				},
			},
			Comments: CommentWidget{Giscus: defaultGiscus()},
		},
		Menu: []MenuLink{
			{Title: "Home", Path: "/"},
			{Title: "About", Path: "/about/"},
			{Title: "Blog", Path: "/posts/"},
		},
		Custom: Custom{
			Comments: Comments{
				Enabled:  true,
				Provider: ProviderGiscus,
				Giscus:   defaultGiscus(),
			},
			SocialLinks: []SocialLink{
				{Name: "mdi:github", FriendlyName: "Github", Link: "https://github.com/psiace", Icon: "mdi:github"},
				{Name: "mdi:mastodon", FriendlyName: "Mastodon", Link: "https://fosstodon.org/@psiace", Icon: "mdi:mastodon"},
				{Name: "mdi:linkedin", FriendlyName: "LinkedIn", Link: "https://www.linkedin.com/in/psiace/", Icon: "mdi:linkedin"},
				{Name: "mdi:rss", FriendlyName: "RSS", Link: "https://psiace.me/rss.xml", Icon: "mdi:rss"},
				{Name: "mdi:email", FriendlyName: "email", Link: "mailto:psiace@outlook.com", Icon: "mdi:email"},
			},
			Experience: []Position{
				{
					Title:           "GenAI Team Member",
					Organization:    "Vesoft Inc. (NebulaGraph)",
					OrganizationURL: "https://github.com/vesoft-inc/",
					Description:     "Exploring the infrastructure and applications of AI and Graph",
					Period:          "Sep 2024 - Present",
					Current:         true,
				},
				{
					Title:           "Founding Member",
					Organization:    "Databend",
					OrganizationURL: "https://github.com/datafuselabs/databend/",
					Description:     "Early employee and core contributor, building the future of cloud [Data + AI] analytics",
					Period:          "Jun 2021 - Aug 2024",
				},
				{
					Title:           "PMC Member",
					Organization:    "Apache OpenDAL™",
					OrganizationURL: "https://github.com/apache/opendal",
					Description:     "Dedicated to creating a unified data access experience for developers",
				},
			},
			Education: []Position{
				{
					Title:           "Master's in Applied Mathematics and Data Science",
					Organization:    "Macau University of Science and Technology",
					OrganizationURL: "https://www.must.edu.mo/",
					Description:     "Focus on machine learning, data analysis and mathematical modeling",
					Period:          "Sep 2022 - Aug 2024",
				},
				{
					Title:           "Bachelor's in Computer Science and Technology",
					Organization:    "Huazhong Agricultural University",
					OrganizationURL: "https://www.hzau.edu.cn/",
					Description:     "Comprehensive study in computer science fundamentals and software engineering",
					Period:          "Sep 2017 - Jun 2021",
				},
			},
			Projects: []Position{
				{
					Title:           "Founding Member",
					Organization:    "Databend",
					OrganizationURL: "https://github.com/datafuselabs/databend",
					Description:     "A modern cloud data warehouse focusing on reducing cost and complexity for your massive-scale analytics needs. Open source alternative to Snowflake.",
				},
				{
					Title:           "PMC Member",
					Organization:    "Apache OpenDAL™",
					OrganizationURL: "https://github.com/apache/opendal",
					Description:     "A data access layer that allows users to easily and efficiently retrieve data from various storage services in a unified way.",
				},
				{
					Title:           "Owner",
					Organization:    "RiteRaft",
					OrganizationURL: "https://github.com/riteraft/riteraft",
					Description:     "A raft framework, for regular people.",
				},
			},
			Features: Features{
				EnableReadingTime: true,
				EnableTOC:         true,
				EnableSearch:      true,
				EnableRSS:         true,
			},
			PageHeaders: map[string]PageHeader{
				"home": {
					Title:           "Hey, World!",
					Description:     defaultDescription,
					ShowSocialLinks: true,
				},
				"about": {
					Title:       "About",
					Subtitle:    "Hi, I'm Chojan Shang.",
					Description: defaultDescription,
				},
			},
		},
		Feeds: []FeedConfig{
			{Collection: "slides", Path: "slides/rss.xml", LinkPrefix: "slides/"},
		},
	}
}
