package datagen

// skillCatalog groups the generated skill tags by category.
var skillCatalog = []struct {
	Category string
	Skills   []string
}{
	{"Programming Languages", []string{"Python", "Java", "JavaScript", "C++", "Ruby", "Go", "PHP", "Swift", "Kotlin"}},
	{"Web Development", []string{"React", "Angular", "Vue.js", "Django", "Flask", "Node.js", "Express", "HTML", "CSS", "WordPress"}},
	{"Mobile Development", []string{"Android", "iOS", "React Native", "Flutter", "Xamarin", "Ionic"}},
	{"Data Science", []string{"Machine Learning", "Deep Learning", "TensorFlow", "PyTorch", "Data Analysis", "SQL", "NoSQL", "Power BI", "Tableau"}},
	{"Design", []string{"UI/UX", "Graphic Design", "Adobe Photoshop", "Illustrator", "Figma", "Sketch", "InDesign"}},
	{"Writing", []string{"Content Writing", "Copywriting", "Technical Writing", "Editing", "Proofreading"}},
	{"Marketing", []string{"Social Media", "Email Marketing", "Content Marketing", "SEO", "PPC", "Google Ads"}},
	{"SEO", []string{"On-page SEO", "Off-page SEO", "Keyword Research", "Link Building", "Local SEO"}},
}

var countries = []string{"USA", "UK", "Canada", "Australia", "Germany", "France", "India", "Singapore", "Brazil", "Japan"}

var availability = []string{"Full-time", "Part-time", "Weekends"}
