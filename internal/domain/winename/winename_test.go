package winename_test

import (
	"strings"
	"testing"

	"github.com/okian/rarepour/internal/domain/model"
	"github.com/okian/rarepour/internal/domain/winename"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given raw wine names", t, func() {
		Convey("When the name carries size and NV tokens", func() {
			Convey("Then they are stripped", func() {
				So(winename.Normalize("Bollinger R.D. Magnum 2007"), ShouldEqual, winename.Normalize("Bollinger R.D. 2007"))
				So(winename.Normalize("Krug Grande Cuvée NV"), ShouldEqual, "krug grande cuvée")
				So(winename.Normalize("Jeroboam  Brut   Réserve"), ShouldEqual, "brut réserve")
			})

			Convey("Then only whole tokens are stripped", func() {
				So(winename.Normalize("Magnums Club"), ShouldEqual, "magnums club")
			})
		})

		Convey("When the name carries a base-year annotation", func() {
			So(winename.Normalize("Brut Nature (base 2018) Extra"), ShouldEqual, "brut nature extra")
			So(winename.Normalize("Brut (Base 2019)"), ShouldEqual, "brut")
		})

		Convey("When the name carries a footnote marker", func() {
			So(winename.Normalize("Cuvée Louise 2004 *only at stand"), ShouldEqual, "cuvée louise 2004")
			So(winename.Normalize("Blanc de Blancs*"), ShouldEqual, "blanc de blancs")
		})

		Convey("When the input is empty or degenerate", func() {
			So(winename.Normalize(""), ShouldEqual, "")
			So(winename.Normalize("   "), ShouldEqual, "")
			So(winename.Normalize("NV Magnum"), ShouldEqual, "")
			So(winename.Normalize("*"), ShouldEqual, "")
		})

		Convey("When normalising twice", func() {
			inputs := []string{
				"Bollinger R.D. Magnum 2007",
				"x magnum* y",
				"(base magnum 2015) Rosé",
				"(base  2015)",
				"  Dom   Pérignon\tP2 1998 ",
				"nv*nv",
				"Taittinger (base 2012) NV * Magnum",
			}

			Convey("Then the result is unchanged", func() {
				for _, in := range inputs {
					once := winename.Normalize(in)
					So(winename.Normalize(once), ShouldEqual, once)
				}
			})
		})

		Convey("When base-year spans are nested deeply", func() {
			in := "Krug " + strings.Repeat("(base ", 21) + "2010)" + strings.Repeat(" 2010)", 20) + " Brut"
			once := winename.Normalize(in)

			Convey("Then every level is removed in one call", func() {
				So(once, ShouldEqual, "krug brut")
				So(winename.Normalize(once), ShouldEqual, once)
			})
		})
	})
}

func TestResolveHouse(t *testing.T) {
	Convey("Given a house catalog", t, func() {
		houses := []string{"Bonnet", "Bonnet-Gilmert", "Krug", "Pol Roger", " ", "Krug"}
		catalog := winename.NewHouseCatalog(houses)

		Convey("When a longer house shares a prefix with a shorter one", func() {
			house, rest, ok := catalog.Resolve("Bonnet-Gilmert Cuvée 2015")

			Convey("Then the longest house wins", func() {
				So(ok, ShouldBeTrue)
				So(house, ShouldEqual, "Bonnet-Gilmert")
				So(rest, ShouldEqual, "Cuvée 2015")
			})
		})

		Convey("When the match is case-insensitive", func() {
			house, rest, ok := catalog.Resolve("POL ROGER Sir Winston Churchill 2013")

			Convey("Then the display name is returned", func() {
				So(ok, ShouldBeTrue)
				So(house, ShouldEqual, "Pol Roger")
				So(rest, ShouldEqual, "Sir Winston Churchill 2013")
			})
		})

		Convey("When a house is only a prefix of a longer word", func() {
			_, _, ok := catalog.Resolve("Krugmann Brut")

			Convey("Then it does not match", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the name is exactly a house", func() {
			_, _, ok := catalog.Resolve("Krug")

			Convey("Then the empty remainder fails resolution", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When no house matches", func() {
			_, _, ok := catalog.Resolve("Unknown Producer 2001")
			So(ok, ShouldBeFalse)
		})

		Convey("When listing houses", func() {
			So(catalog.Len(), ShouldEqual, 4)
			So(catalog.Houses(), ShouldResemble, []string{"Bonnet", "Bonnet-Gilmert", "Krug", "Pol Roger"})
		})

		Convey("When using the one-off helper", func() {
			house, _, ok := winename.ResolveHouse("Bonnet Brut", []string{"Bonnet-Gilmert", "Bonnet"})
			So(ok, ShouldBeTrue)
			So(house, ShouldEqual, "Bonnet")
		})
	})
}

func TestInferSize(t *testing.T) {
	Convey("Given wine names with formats", t, func() {
		Convey("When a size word appears as a whole word", func() {
			s, ok := winename.InferSize("Ruinart Blanc de Blancs MAGNUM")
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, model.SizeMagnum)

			s, ok = winename.InferSize("Drappier Nabuchodonosor Brut")
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, model.SizeNabuchodonosor)
		})

		Convey("When the word is embedded in another word", func() {
			_, ok := winename.InferSize("Magnumfest Brut")
			So(ok, ShouldBeFalse)
		})

		Convey("When no size is present", func() {
			_, ok := winename.InferSize("Bollinger R.D. 2007")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestExtractYear(t *testing.T) {
	Convey("Given wine names with numbers", t, func() {
		Convey("When a standalone year is present", func() {
			y, ok := winename.ExtractYear("Bollinger R.D. 2007")
			So(ok, ShouldBeTrue)
			So(y, ShouldEqual, 2007)
		})

		Convey("When several years are present", func() {
			y, ok := winename.ExtractYear("Charles Heidsieck 1995 disgorged 2019")
			So(ok, ShouldBeTrue)
			So(y, ShouldEqual, 1995)
		})

		Convey("When the digits are part of a longer token", func() {
			_, ok := winename.ExtractYear("Lot 20071 Cuvée P2")
			So(ok, ShouldBeFalse)
			_, ok = winename.ExtractYear("Cuvée2007")
			So(ok, ShouldBeFalse)
		})

		Convey("When punctuation delimits the year", func() {
			y, ok := winename.ExtractYear("Brut (2012)")
			So(ok, ShouldBeTrue)
			So(y, ShouldEqual, 2012)
		})
	})
}
