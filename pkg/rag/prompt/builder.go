package prompt

import (
	"fmt"
	"strings"

	"moodmuse-be/pkg/rag/index"
)

const promptTemplate = `ROL:
Sen, kullanıcının duygusal durumunu anlayan ve ona nazikçe destek olan bir "destekleyici rehber"sin.

GÖREV:
Kullanıcının duygu ifadesine dayanarak, onu yargılamadan destekleyen, "sen" dilinde yazılmış ve somut bir mini eylem (ritüel) içeren, 3-4 cümleden oluşan tek bir paragraf oluştur.

AKIŞ VE YAPI:
1) Onayla: Kullanıcının belirttiği duyguyu (%[3]s) nazikçe yansıt.
2) Öner: "Belki…" / "İstersen…" gibi yumuşak bir dille, o anda yapılabilir **çok basit** bir mini ritüel öner (ör. tek derin nefes, omuzları gevşetme, pencereden 5 sn dışarı bakma, bir yudum suyu dikkatle içme).
3) Fayda: Bu küçük eylemin kısa bir gerekçesini belirt (beden gevşemesi → zihin rahatlar, nefese odak → stres azalır vb.).
4) Destekle: Şefkatli bir kapanış cümlesi ekle.

STİL VE KISITLAR:
- Dil: Yalnızca Türkçe. Yargısız, "sen" kipi, **emir verme** (yap yerine yapabilirsin).
- Uzunluk: **Toplam 3–4 cümle. Asla aşma.**
- Biçim: **Tek paragraf**; emoji, başlık, madde yok.
- Güvenlik: Tıbbi tavsiye verme; kriz belirtisi sezersen doğrudan yönlendirme yapma.
- KANIT: Aşağıdaki "KANIT" bölümü **kullanıcıya gösterilmez**, yalnızca bağlamdır.

KANIT:
- %[1]s (Kaynak: %[2]s)

GİRDİ:
Duygu: %[3]s
Metin: "%[4]s"

İSTENEN ÇIKTI (tek paragraf):
[Onay.] [Mini ritüel.] [Fayda.] [Destek.]`

// Fallback values used when retrieval comes back empty or incomplete.
const (
	defaultEvidence = "Kısa, ritimli nefese odaklanmak gerginliği azaltabilir."
	noContentLabel  = "(içerik yok)"
	noSourceLabel   = "(kaynak yok)"
	defaultEmotion  = "belirsiz"

	userTextLimit = 280
)

// Evidence is one retrieved snippet offered to the builder. Source may be
// empty when the originating chunk carried no source tag.
type Evidence struct {
	Text   string
	Source string
}

// FromResults converts index results into evidence pairs.
func FromResults(results []index.Result) []Evidence {
	evidence := make([]Evidence, 0, len(results))
	for _, r := range results {
		evidence = append(evidence, Evidence{
			Text:   r.Document,
			Source: r.Metadata[index.MetaSource],
		})
	}
	return evidence
}

// Build renders the generation prompt. It is a pure function: identical
// inputs in identical order produce an identical string.
//
// The shortest evidence text wins; snippets with empty text rank last. The
// user text is capped at 280 runes, cut back to the last space inside the cap
// so no word is split.
func Build(userText, emotion string, evidence []Evidence) string {
	evText := defaultEvidence
	source := noContentLabel
	if len(evidence) > 0 {
		best := evidence[0]
		for _, ev := range evidence[1:] {
			if evidenceRank(ev) < evidenceRank(best) {
				best = ev
			}
		}
		evText = best.Text
		source = best.Source
		if source == "" {
			source = noSourceLabel
		}
	}

	if emotion == "" {
		emotion = defaultEmotion
	}

	return fmt.Sprintf(promptTemplate,
		strings.TrimSpace(evText),
		source,
		emotion,
		trimToWordBoundary(userText, userTextLimit),
	)
}

func evidenceRank(ev Evidence) int {
	if ev.Text == "" {
		return int(^uint(0) >> 1)
	}
	return len([]rune(ev.Text))
}

func trimToWordBoundary(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	cut := runes[:n]
	for i := len(cut) - 1; i >= 0; i-- {
		if cut[i] == ' ' {
			return string(cut[:i])
		}
	}
	return string(cut)
}
