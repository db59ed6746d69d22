package services

import (
	"fmt"
	"strings"
)

func quotedList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, item := range items {
		quoted = append(quoted, fmt.Sprintf("%q", item))
	}
	return strings.Join(quoted, ", ")
}

func buildClassificationPrompt(symptoms, preliminary string, available []string) string {
	return fmt.Sprintf(`أنت مساعد طبي خبير في شركة خدمات طبية. مهمتك تحليل شكوى المريض واقتراح أنسب تخصص من القائمة المتاحة.
قائمة التخصصات المتاحة: [%s]
التخصص المبدئي المقترح: %q
شكوى المريض: %q

المطلوب:
1. اختر التخصص الأنسب فقط من القائمة أعلاه، ولا تختر صيدلية أبداً.
2. اكتب شرحاً مبسطاً للمريض يوضح سبب الاختيار.
3. قدم ثلاث نصائح عامة مؤقتة حتى زيارة الطبيب.

ردك يجب أن يكون JSON فقط بدون أي نص قبله أو بعده، بالحقول:
- "recommended_specialty": نص
- "explanation": نص
- "temporary_advice": قائمة من ثلاثة نصوص`, quotedList(available), preliminary, symptoms)
}

func buildReportPrompt(available []string) string {
	return fmt.Sprintf(`أنت محلل تقارير طبية في شركة خدمات طبية. حلل الملفات المرفقة (صور أو PDF) وقدم إرشادات أولية.
قائمة التخصصات المتاحة: [%s]

أعد JSON فقط بدون أي علامات، بالحقول التالية:
1. "interpretation": شرح مبسط لما يظهر في التقرير مع التركيز على المؤشرات غير الطبيعية. لا تقدم تشخيصاً نهائياً وأكد أنها ملاحظات أولية.
2. "temporary_advice": قائمة من 3 نصائح عامة مؤقتة.
3. "recommended_specialty": تخصص واحد فقط من القائمة هو الأنسب للحالة، ولا تختر صيدلية.
4. "reason": سبب ترشيح هذا التخصص.

إذا كانت الملفات غير واضحة، اذكر ذلك في "interpretation" واترك باقي الحقول فارغة.`, quotedList(available))
}
