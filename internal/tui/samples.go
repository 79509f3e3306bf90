package tui

// SampleArticle is a built-in preset for quickly exercising the analyzer.
type SampleArticle struct {
	Name  string
	Title string
	Text  string
}

// Samples cycle through the form on the sample key. One obviously
// sensational piece and one dry factual piece, so both verdict paths are a
// keystroke away.
var Samples = []SampleArticle{
	{
		Name:  "sensational",
		Title: "BREAKING: Scientists Discover Miracle Cure Doctors Don't Want You To Know",
		Text: "In a shocking revelation that the medical establishment has tried to bury, " +
			"researchers claim a common household spice can cure virtually every disease " +
			"known to humanity. Insiders say pharmaceutical companies are spending millions " +
			"to suppress the findings. Share this before it gets taken down - thousands " +
			"have already been healed overnight, according to anonymous testimonials " +
			"circulating on social media.",
	},
	{
		Name:  "factual",
		Title: "City Council Approves Annual Budget After Public Hearing",
		Text: "The city council voted 7-2 on Tuesday to approve the annual municipal budget, " +
			"following a two-hour public hearing attended by roughly forty residents. " +
			"The approved plan allocates additional funding to road maintenance and the " +
			"public library system, while keeping property tax rates unchanged. The finance " +
			"committee will publish the full budget document on the city website next week, " +
			"and implementation begins at the start of the fiscal year.",
	},
}
