package markmap

import "fmt"

const fallbackTemplate = `<html>
markmap-cli not installed.<br>
<br>
Installation<br>
yarn global add markmap-cli<br>
or<br>
npm install -g markmap-cli<br>
</html>
<style>
body {
    background: %s;
    color: %s;
    font-family: Arial, sans-serif;
    text-align: center;
    margin-top: 20%%;
}
</style>
`

// Palette colors for the fallback page.
const (
	DarkBackground  = "#1e1e1e"
	DarkForeground  = "#d4d4d4"
	LightBackground = "#ffffff"
	LightForeground = "#000000"
)

// FallbackHTML returns the page shown when markmap is missing or produced nothing.
func FallbackHTML(dark bool) string {
	if dark {
		return fmt.Sprintf(fallbackTemplate, DarkBackground, DarkForeground)
	}
	return fmt.Sprintf(fallbackTemplate, LightBackground, LightForeground)
}
