package inquiries

import "makani-studio/internal/domain/i18n"

// TypeFromSubject maps the contact form's subject choice to an inquiry type.
func TypeFromSubject(subject string) Type {
	switch subject {
	case "New Project":
		return TypeProject
	case "Press":
		return TypePress
	case "Careers":
		return TypeCareer
	case "Other":
		return TypeOther
	}
	return TypeContact
}

// SubjectI18n is the fixed subject line for each type.
func SubjectI18n(t Type) i18n.LocalizedText {
	switch t {
	case TypeProject:
		return i18n.LocalizedText{EN: "New Project Inquiry", FR: "Nouveau projet", AR: "طلب مشروع جديد"}
	case TypePress:
		return i18n.LocalizedText{EN: "Press / Media", FR: "Presse / Media", AR: "صحافة / إعلام"}
	case TypeCareer:
		return i18n.LocalizedText{EN: "Careers", FR: "Carrieres", AR: "وظائف"}
	case TypeOther:
		return i18n.LocalizedText{EN: "Other", FR: "Autre", AR: "أخرى"}
	}
	return i18n.LocalizedText{EN: "Contact", FR: "Contact", AR: "تواصل"}
}
