package services

const (
	// SpecialtyEmergency routes the patient to a hospital emergency room
	SpecialtyEmergency = "طوارئ مستشفى"
	// SpecialtyInternalMedicine is the default when nothing else matches
	SpecialtyInternalMedicine = "باطنة"
	// EmergencyProviderType is the directory type ranked for emergencies
	EmergencyProviderType = "مستشفى"
)

// SpecialtyKeyword maps a symptom keyword to a specialty label
type SpecialtyKeyword struct {
	Keyword   string
	Specialty string
}

// DefaultEmergencyPhrases short-circuit classification to SpecialtyEmergency.
// Phrases and keywords match at the start of a word, after any attached
// proclitic, so "حادث" does not fire inside "محادثة".
var DefaultEmergencyPhrases = []string{
	"ألم في الصدر", "ألم بالصدر", "الم الصدر", "وجع في الصدر", "ضيق تنفس شديد", "اختناق",
	"فقدان وعي", "فقدان الوعي", "فقد الوعي", "إغماء", "اغمي عليه", "غيبوبة",
	"نزيف", "ينزف", "جلطة", "سكتة", "شلل مفاجئ", "تنميل نصف الجسم", "اعوجاج الفم",
	"تشنجات", "حادث", "تسمم", "حرق شديد",
	"chest pain", "unconscious", "fainted", "bleeding", "stroke", "seizure",
}

// DefaultSpecialtyLexicon is scanned in order; the first keyword found in
// the symptoms decides the preliminary specialty.
var DefaultSpecialtyLexicon = []SpecialtyKeyword{
	{"أسنان", "أسنان"}, {"سنان", "أسنان"}, {"ضرس", "أسنان"}, {"ضروس", "أسنان"}, {"لثة", "أسنان"}, {"tooth", "أسنان"},

	{"عيني", "رمد"}, {"عيون", "رمد"}, {"العين", "رمد"}, {"النظر", "رمد"}, {"زغللة", "رمد"}, {"eye", "رمد"},

	{"أذن", "أنف وأذن"}, {"ودني", "أنف وأذن"}, {"الحلق", "أنف وأذن"}, {"اللوز", "أنف وأذن"},
	{"الجيوب الأنفية", "أنف وأذن"}, {"السمع", "أنف وأذن"}, {"الزور", "أنف وأذن"}, {"رشح", "أنف وأذن"},

	{"كسر", "عظام"}, {"اتكسر", "عظام"}, {"انكسر", "عظام"}, {"مفصل", "عظام"}, {"الركبة", "عظام"}, {"ظهري", "عظام"}, {"الظهر", "عظام"},
	{"فقرات", "عظام"}, {"غضروف", "عظام"}, {"التواء", "عظام"}, {"الكتف", "عظام"}, {"عظم", "عظام"},

	{"جلد", "جلدية"}, {"حكة", "جلدية"}, {"هرش", "جلدية"}, {"طفح", "جلدية"}, {"اكزيما", "جلدية"},
	{"حبوب في الوجه", "جلدية"}, {"تساقط الشعر", "جلدية"}, {"skin", "جلدية"},

	{"طفلي", "أطفال"}, {"رضيع", "أطفال"}, {"ابني", "أطفال"}, {"بنتي", "أطفال"}, {"طفل", "أطفال"},

	{"حامل", "نساء"}, {"الحمل", "نساء"}, {"الدورة الشهرية", "نساء"}, {"ولادة", "نساء"}, {"الرحم", "نساء"},

	{"خفقان", "قلب"}, {"ضربات القلب", "قلب"}, {"القلب", "قلب"}, {"ضغط الدم", "قلب"}, {"الضغط", "قلب"},

	{"حرقان في البول", "مسالك"}, {"البول", "مسالك"}, {"الكلى", "مسالك"}, {"المثانة", "مسالك"},
	{"البروستاتا", "مسالك"}, {"حصوة", "مسالك"},

	{"صداع", "مخ وأعصاب"}, {"مصدع", "مخ وأعصاب"}, {"دوخة", "مخ وأعصاب"}, {"دوار", "مخ وأعصاب"},
	{"تنميل", "مخ وأعصاب"}, {"رعشة", "مخ وأعصاب"}, {"headache", "مخ وأعصاب"},

	{"اكتئاب", "نفسية"}, {"قلق", "نفسية"}, {"أرق", "نفسية"}, {"توتر", "نفسية"},

	{"كحة", "صدر"}, {"سعال", "صدر"}, {"ربو", "صدر"}, {"نهجان", "صدر"}, {"ضيق تنفس", "صدر"}, {"cough", "صدر"},

	{"معدة", "باطنة"}, {"بطن", "باطنة"}, {"إسهال", "باطنة"}, {"إمساك", "باطنة"}, {"قولون", "باطنة"},
	{"حموضة", "باطنة"}, {"ترجيع", "باطنة"}, {"سكر", "باطنة"}, {"حرارة", "باطنة"}, {"سخونية", "باطنة"},
}

// emergencyAdvice is returned for every emergency classification
var emergencyAdvice = []string{
	"توجه فوراً إلى أقرب قسم طوارئ أو اتصل بالإسعاف على 123.",
	"لا تقد السيارة بنفسك واطلب مساعدة من أحد المرافقين.",
	"لا تتناول أي أدوية أو طعام حتى يتم تقييم حالتك طبياً.",
}

// specialtyAdvice is the fallback advice when refinement is unavailable
var specialtyAdvice = map[string][]string{
	"أسنان":     {"اشطف الفم بماء دافئ وملح.", "تجنب الأطعمة شديدة السخونة أو البرودة.", "يمكن استخدام مسكن بسيط حسب الإرشادات لحين زيارة الطبيب."},
	"رمد":       {"لا تفرك العين.", "اغسل العين بماء نظيف إذا وجد جسم غريب.", "تجنب استخدام العدسات اللاصقة لحين الكشف."},
	"أنف وأذن":  {"اشرب سوائل دافئة بكثرة.", "تجنب إدخال أي أداة في الأذن.", "الغرغرة بماء دافئ وملح قد تخفف ألم الحلق."},
	"عظام":      {"أرح الجزء المصاب وتجنب حمل الأثقال.", "ضع كمادات باردة خلال أول 48 ساعة.", "ارفع الطرف المصاب إن أمكن لتقليل التورم."},
	"جلدية":     {"تجنب حك المنطقة المصابة.", "استخدم منظفات لطيفة خالية من العطور.", "لاحظ أي طعام أو مادة جديدة قد تكون سبباً للحساسية."},
	"أطفال":     {"راقب درجة حرارة الطفل بانتظام.", "احرص على إعطاء الطفل سوائل كافية.", "لا تعطِ الطفل أدوية دون استشارة الطبيب."},
	"نساء":      {"سجلي مواعيد الأعراض ومدتها.", "تجنبي تناول أدوية دون استشارة خاصة أثناء الحمل.", "اطلبي الرعاية فوراً عند حدوث نزيف غزير."},
	"قلب":       {"تجنب المجهود البدني الشديد.", "قس ضغط الدم وسجل القراءات.", "قلل من الملح والكافيين."},
	"مسالك":     {"اشرب كميات كافية من الماء.", "لا تؤجل التبول.", "تجنب المشروبات الغازية والكافيين."},
	"مخ وأعصاب": {"احصل على قسط كافٍ من النوم.", "اشرب الماء بانتظام.", "سجل أوقات الأعراض وشدتها لعرضها على الطبيب."},
	"نفسية":     {"حافظ على روتين نوم منتظم.", "تحدث مع شخص تثق به.", "مارس المشي أو تمارين التنفس يومياً."},
	"صدر":       {"تجنب التدخين والأماكن المغلقة المليئة بالدخان.", "اشرب سوائل دافئة.", "اطلب الرعاية فوراً إذا زاد ضيق التنفس."},
	"باطنة":     {"اشرب سوائل كافية.", "تناول وجبات خفيفة وسهلة الهضم.", "راقب درجة الحرارة واطلب الرعاية إذا ساءت الأعراض."},
}

// genericAdvice covers specialties without an entry in specialtyAdvice
var genericAdvice = []string{
	"استشر الطبيب المختص في أقرب وقت.",
	"دوّن الأعراض ومدتها لعرضها على الطبيب.",
	"لا تتناول أدوية دون استشارة طبية.",
}

func adviceFor(specialty string) []string {
	if advice, ok := specialtyAdvice[specialty]; ok {
		return append([]string(nil), advice...)
	}
	return append([]string(nil), genericAdvice...)
}
