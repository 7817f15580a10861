package params

// ConcreteGrades are the concrete strength classes addressed by the
// ConcreteGrade index.
var ConcreteGrades = []string{
	"C12/15", "C16/20", "C20/25", "C25/30", "C30/37", "C35/45",
	"C40/50", "C45/55", "C50/60", "C55/67", "C60/75", "C70/85",
	"C80/95", "C90/105", "C100/115",
}

// SteelGrades are the reinforcing steel grades addressed by the SteelGrade
// index.
var SteelGrades = []string{
	"B500A", "B500B", "B500C", "B450C", "BSt500S", "Grade 60",
}

// GradeIndex returns the index of name in grades.
func GradeIndex(grades []string, name string) (int, bool) {
	for i, g := range grades {
		if g == name {
			return i, true
		}
	}
	return 0, false
}

// ConcreteGradeName returns the strength class of index i, or "" when out
// of range.
func ConcreteGradeName(i int) string {
	if i < 0 || i >= len(ConcreteGrades) {
		return ""
	}
	return ConcreteGrades[i]
}

// SteelGradeName returns the steel grade of index i, or "" when out of
// range.
func SteelGradeName(i int) string {
	if i < 0 || i >= len(SteelGrades) {
		return ""
	}
	return SteelGrades[i]
}
