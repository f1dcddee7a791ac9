package main

import (
	"github.com/dshills/prefpane/internal/config/registry"
	"github.com/dshills/prefpane/internal/property"
)

// demoCategories builds the sample preferences tree used by the command.
func demoCategories() []*registry.Category {
	brightness := property.NewObject(50)

	welcome := registry.New("general.welcomeText", "Welcome Text", property.NewObject("Hello World"))
	brightnessSetting := registry.New("display.brightness", "Brightness", brightness,
		registry.WithRange(0, 100), registry.WithTags("display"))
	nightMode := registry.New("display.nightMode", "Night mode", property.NewObject(true),
		registry.WithTags("display", "theme"),
		registry.WithVisibility(registry.VisibleWhen(brightness, func(v any) bool {
			n, ok := v.(int)
			return ok && n > 50
		})))

	scaling := registry.New("screen.scaling", "Scaling", property.NewObject(1.0), registry.WithMinimum(1))
	screenName := registry.New("screen.name", "Screen name", property.NewObject("PreferencesFX Monitor"))
	resolution := registry.NewSelection("screen.resolution", "Resolution",
		[]any{"1024x768", "1280x1024", "1440x900", "1920x1080"}, property.NewObject("1024x768"))
	orientation := registry.NewSelection("screen.orientation", "Orientation",
		[]any{"Vertical", "Horizontal"}, property.NewObject("Vertical"))

	fontSize := registry.New("text.fontSize", "Font Size", property.NewObject(12), registry.WithRange(6, 36))
	lineSpacing := registry.New("text.lineSpacing", "Line Spacing", property.NewObject(1.5), registry.WithRange(0, 3))

	favorites := registry.NewMultiSelection("favorites.selection", "Favorites",
		[]any{"eMovie", "Eboda Phot-O-Shop", "Mikesoft Text", "Mikesoft Numbers", "Mikesoft Present", "IntelliG"},
		property.NewList("Eboda Phot-O-Shop", "Mikesoft Text"))

	return []*registry.Category{
		registry.NewCategory("General",
			registry.NewGroup("Greeting", welcome),
			registry.NewGroup("Display", brightnessSetting, nightMode),
		),
		registry.NewCategory("Screen",
			registry.NewGroup("Screen Options", screenName, resolution, orientation),
		).WithSubCategories(
			registry.NewCategory("Scaling & Ordering",
				registry.NewGroup("", scaling),
			),
			registry.NewCategory("Text",
				registry.NewGroup("Font", fontSize, lineSpacing),
			),
		),
		registry.NewCategoryOf("Favorites", favorites),
	}
}
