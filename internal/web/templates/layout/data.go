package layout

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Type    string // "info", "success" or "error"
	Message string
}

// PageData holds data shared by every full page
type PageData struct {
	Title string
	Flash *FlashMessage
}

func pageTitle(data PageData) string {
	if data.Title == "" {
		return "Pipes"
	}
	return data.Title + " - Pipes"
}
