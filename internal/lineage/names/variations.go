package names

// variationGroups lists given names that are recognized as the same name
// even though normalization alone does not fold them together: compound
// names, dropped leading letters and common Latin transliterations.
var variationGroups = [][]string{
	{"محمد", "Mohammed", "Muhammad", "Mohamed", "Mohammad", "Muhammed"},
	{"احمد", "Ahmed", "Ahmad"},
	{"عبدالله", "Abdullah", "Abdallah", "Abdulla"},
	{"عبدالرحمن", "Abdulrahman", "Abdelrahman", "Abdurrahman"},
	{"عبدالعزيز", "عزوز", "Abdulaziz", "Abdelaziz"},
	{"عبدالكريم", "Abdulkarim", "Abdelkarim"},
	{"ابراهيم", "براهيم", "Ibrahim", "Ebrahim", "Ibraheem"},
	{"اسماعيل", "سماعيل", "Ismail", "Esmail"},
	{"يحيى", "يحيا", "Yahya", "Yahia"},
	{"يوسف", "Yousef", "Yusuf", "Youssef", "Yousif"},
	{"سليمان", "Sulaiman", "Suleiman", "Sulayman"},
	{"صالح", "Saleh", "Salih"},
	{"فهد", "Fahad", "Fahd"},
	{"خالد", "Khalid", "Khaled"},
	{"ناصر", "Nasser", "Naser"},
	{"سعد", "Saad"},
	{"حمد", "Hamad"},
	{"حمود", "Hammoud", "Hamoud"},
	{"عيسى", "Eisa", "Issa", "Isa"},
	{"موسى", "Musa", "Mousa"},
	{"مصطفى", "Mustafa", "Mostafa"},
	{"عثمان", "Othman", "Uthman", "Osman"},
	{"نوره", "Noura", "Nora", "Norah"},
	{"فاطمه", "Fatima", "Fatimah", "Fatma"},
	{"عائشه", "Aisha", "Aysha", "Ayesha"},
}

var variationIndex = buildVariationIndex(variationGroups)

func buildVariationIndex(groups [][]string) map[string]int {
	index := make(map[string]int)
	for i, group := range groups {
		for _, name := range group {
			index[compact(Normalize(name))] = i
		}
	}
	return index
}

// AreVariations reports whether two names are known alternate spellings of
// one another. Names that differ only by internal spacing always qualify.
func AreVariations(a, b string) bool {
	return areVariations(Normalize(a), Normalize(b))
}

func areVariations(normalizedA, normalizedB string) bool {
	ka, kb := compact(normalizedA), compact(normalizedB)
	if ka == "" || kb == "" {
		return false
	}
	if ka == kb {
		return true
	}
	ga, ok := variationIndex[ka]
	if !ok {
		return false
	}
	gb, ok := variationIndex[kb]
	return ok && ga == gb
}
