package gallery

// Samples returns the curated catalog shown on the home tab. The clips are
// served from Google's public sample bucket so the gallery works without any
// credentials.
func Samples() []Video {
	return []Video{
		{
			ID:          "sample-big-buck-bunny",
			Title:       "Big Buck Bunny",
			Description: "A giant rabbit takes gentle revenge on three forest bullies",
			URL:         "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
		},
		{
			ID:          "sample-elephants-dream",
			Title:       "Elephants Dream",
			Description: "Two characters explore a strange industrial dreamworld",
			URL:         "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4",
		},
		{
			ID:          "sample-for-bigger-blazes",
			Title:       "For Bigger Blazes",
			Description: "Flames roar across the screen in slow motion",
			URL:         "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ForBiggerBlazes.mp4",
		},
		{
			ID:          "sample-for-bigger-escapes",
			Title:       "For Bigger Escapes",
			Description: "A daring escape filmed from a chasing drone",
			URL:         "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ForBiggerEscapes.mp4",
		},
		{
			ID:          "sample-for-bigger-fun",
			Title:       "For Bigger Fun",
			Description: "Friends pile onto a couch for movie night",
			URL:         "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ForBiggerFun.mp4",
		},
		{
			ID:          "sample-for-bigger-joyrides",
			Title:       "For Bigger Joyrides",
			Description: "A convertible winds along a coastal highway at sunset",
			URL:         "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ForBiggerJoyrides.mp4",
		},
		{
			ID:          "sample-sintel",
			Title:       "Sintel",
			Description: "A lone girl searches a frozen wasteland for her lost dragon",
			URL:         "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/Sintel.mp4",
		},
		{
			ID:          "sample-subaru-street",
			Title:       "Street Drive",
			Description: "Rally car hustles through narrow mountain streets",
			URL:         "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/SubaruOutbackOnStreetAndDirt.mp4",
		},
	}
}
