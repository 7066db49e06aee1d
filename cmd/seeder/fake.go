package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

var seedTags = []string{"travel", "food", "music", "tech", "sports", "daily"}

type vlogPayload struct {
	Title       string
	Content     string
	Description string
	Tag         string
	Cover       []byte
	Images      [][]byte
	Document    string
}

func fakeVlog(f *gofakeit.Faker) vlogPayload {
	images := make([][]byte, f.Number(0, 3))
	for i := range images {
		images[i] = fakePNG(f)
	}

	return vlogPayload{
		Title:       truncate(strings.TrimSuffix(f.Sentence(f.Number(2, 6)), "."), 100),
		Content:     truncate(f.HipsterSentence(f.Number(5, 15)), 255),
		Description: f.Paragraph(f.Number(1, 3), f.Number(2, 5), 12, "\n\n"),
		Tag:         f.RandomString(seedTags),
		Cover:       fakePNG(f),
		Images:      images,
		Document:    f.Paragraph(2, 4, 10, "\n"),
	}
}

// fakeCredentials returns a username and a password that satisfy the
// registration rules: at least one uppercase letter and one digit.
func fakeCredentials(f *gofakeit.Faker) (string, string) {
	username := sanitizeUsername(f.Username()) + f.DigitN(3)
	password := "S" + f.Password(true, true, true, false, false, 10) + f.Digit()
	return username, password
}

func sanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', strings.ContainsRune("@.+-_", r):
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

// fakePNG draws a small single-colour image so uploads pass content sniffing.
func fakePNG(f *gofakeit.Faker) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	c := color.RGBA{R: f.Uint8(), G: f.Uint8(), B: f.Uint8(), A: 255}
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
